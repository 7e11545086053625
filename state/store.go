package state

import (
	"slices"
	"sync"

	"github.com/block/amocrm-go/types"
)

const defaultBufferSize = 16

// Snapshot is a copy of the dashboard state at one point in time.
// NoLeadOpened in OpenedLeadId means no card is open.
type Snapshot struct {
	Leads        []types.Lead
	Loading      bool
	OpenedLeadId int64
}

const NoLeadOpened int64 = 0

// Store holds the dashboard state and publishes a Snapshot to every
// subscriber after each change.
//
// Publishing never blocks: when a subscriber's buffer is full its oldest
// snapshot is dropped, so a slow reader still ends up with the latest state.
type Store struct {
	mu          sync.RWMutex
	leads       []types.Lead
	loading     bool
	opened      int64
	rendered    map[int64]struct{}
	subscribers []chan Snapshot
	bufferSize  int
}

func NewStore() *Store {
	return &Store{
		rendered:   make(map[int64]struct{}),
		bufferSize: defaultBufferSize,
	}
}

// Subscribe returns a channel receiving a Snapshot after every change.
// The channel is closed by Unsubscribe or Close.
func (s *Store) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, s.bufferSize)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Store) Unsubscribe(target <-chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ch := range s.subscribers {
		if ch == target {
			s.subscribers = slices.Delete(s.subscribers, i, i+1)
			close(ch)
			return
		}
	}
}

// Close closes every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SetLeads replaces the lead list and the loading flag in one change.
func (s *Store) SetLeads(leads []types.Lead, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leads = slices.Clone(leads)
	s.loading = loading
	s.publishLocked()
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = loading
	s.publishLocked()
}

// ToggleOpened opens the card of leadId, or closes it if it is already open.
// It returns the lead that was open before and whether leadId is open now.
func (s *Store) ToggleOpened(leadId int64) (previous int64, opened bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous = s.opened
	if previous == leadId {
		s.opened = NoLeadOpened
	} else {
		s.opened = leadId
	}
	s.publishLocked()
	return previous, s.opened != NoLeadOpened
}

func (s *Store) OpenedLeadId() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opened
}

// UpdateTask attaches task to the lead with leadId.
// It reports false, and publishes nothing, if there is no such lead.
func (s *Store) UpdateTask(leadId int64, task types.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.leads, func(l types.Lead) bool { return l.Id == leadId })
	if idx < 0 {
		return false
	}

	leads := slices.Clone(s.leads)
	leads[idx].Task = &task
	s.leads = leads
	s.publishLocked()
	return true
}

// MarkRendered records that a lead has been shown to the user.
// It reports false if the lead was already marked.
func (s *Store) MarkRendered(leadId int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rendered[leadId]; ok {
		return false
	}
	s.rendered[leadId] = struct{}{}
	return true
}

func (s *Store) IsRendered(leadId int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rendered[leadId]
	return ok
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Leads:        slices.Clone(s.leads),
		Loading:      s.loading,
		OpenedLeadId: s.opened,
	}
}

func (s *Store) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		// full: drop the oldest snapshot and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
