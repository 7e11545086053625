package state

import (
	"sync"

	"github.com/block/amocrm-go/types"
)

const DefaultTaskCacheSize = 3

// TaskCache keeps the tasks of the last few leads that were looked up.
// When full, the lead that was added first is evicted. Storing a task for a
// lead that is already cached replaces the task but keeps its position.
type TaskCache struct {
	mu    sync.Mutex
	size  int
	order []int64
	tasks map[int64]types.Task
}

// NewTaskCache returns a cache holding up to size tasks.
// A size below 1 falls back to DefaultTaskCacheSize.
func NewTaskCache(size int) *TaskCache {
	if size < 1 {
		size = DefaultTaskCacheSize
	}
	return &TaskCache{
		size:  size,
		tasks: make(map[int64]types.Task, size+1),
	}
}

func (c *TaskCache) Put(leadId int64, task types.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tasks[leadId]; !ok {
		c.order = append(c.order, leadId)
	}
	c.tasks[leadId] = task

	for len(c.order) > c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.tasks, oldest)
	}
}

func (c *TaskCache) Get(leadId int64) (types.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	task, ok := c.tasks[leadId]
	return task, ok
}

func (c *TaskCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}
