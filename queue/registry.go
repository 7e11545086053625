package queue

// registry maps a key to the one job currently running under it.
// It is not safe for concurrent use; Queue guards it with its mutex.
type registry struct {
	active map[string]*job
}

func newRegistry() *registry {
	return &registry{active: make(map[string]*job)}
}

func (r *registry) get(key string) *job {
	return r.active[key]
}

// put installs j for its key. The caller must have evicted
// the previous job first; put never holds two jobs per key.
func (r *registry) put(j *job) {
	r.active[j.key] = j
}

// release removes the entry for key, but only if it still belongs to the
// job with the given id: a newer job may have taken the key over while the
// old one was settling.
func (r *registry) release(key string, id string) bool {
	j, ok := r.active[key]
	if !ok || j.id != id {
		return false
	}
	delete(r.active, key)
	return true
}

func (r *registry) len() int {
	return len(r.active)
}
