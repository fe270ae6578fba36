// README: Simulator schedules the one-shot status flip that stands in for a dispatcher.
package flow

import (
	"sync"
	"time"

	"skyride/internal/types"
)

// Simulator holds cancellable one-shot tasks keyed by booking id.
type Simulator struct {
	clock Clock
	delay time.Duration

	mu    sync.Mutex
	tasks map[types.ID]*simTask
}

type simTask struct {
	timer Timer
}

func NewSimulator(clock Clock, delay time.Duration) *Simulator {
	return &Simulator{clock: clock, delay: delay, tasks: make(map[types.ID]*simTask)}
}

// Schedule runs fn after the configured delay unless the task is cancelled
// first. Scheduling an id that is already pending replaces the old task.
func (s *Simulator) Schedule(id types.ID, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[id]; ok {
		old.timer.Stop()
	}
	t := &simTask{}
	s.tasks[id] = t
	t.timer = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		current := s.tasks[id] == t
		if current {
			delete(s.tasks, id)
		}
		s.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel stops the task for id. It reports whether one was pending.
func (s *Simulator) Cancel(id types.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, id)
	return true
}

func (s *Simulator) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, id)
	}
}

// Pending returns the number of scheduled tasks.
func (s *Simulator) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
