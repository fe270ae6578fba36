// README: Session registry; maps session ids to controllers and evicts idle ones.
package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

type Registry struct {
	newController func() *Controller
	clock         Clock
	idle          time.Duration
	log           logrus.FieldLogger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(newController func() *Controller, clock Clock, idle time.Duration, log logrus.FieldLogger) *Registry {
	return &Registry{
		newController: newController,
		clock:         clock,
		idle:          idle,
		log:           log,
		sessions:      make(map[string]*session),
	}
}

// Create opens a session and loads its tiers. A tier fetch failure aborts
// the session; a recent-bookings failure only logs.
func (r *Registry) Create(ctx context.Context) (string, *Controller, error) {
	ctrl := r.newController()
	if err := ctrl.LoadTiers(ctx); err != nil {
		ctrl.Close()
		return "", nil, err
	}
	ctrl.refreshRecentLogged(ctx)

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &session{ctrl: ctrl, lastSeen: r.clock.Now()}
	r.mu.Unlock()

	r.log.WithField("session_id", id).Debug("session created")
	return id, ctrl, nil
}

// Get returns the session's controller and marks it as seen.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = r.clock.Now()
	return s.ctrl, true
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.ctrl.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the configured timeout and
// returns how many were evicted.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*session
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idle {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.ctrl.Close()
	}
	if len(expired) > 0 {
		r.log.WithField("evicted", len(expired)).Info("idle sessions evicted")
	}
	return len(expired)
}

// RunJanitor sweeps on every tick until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.clock.Now())
		}
	}
}

// CloseAll closes every session; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.ctrl.Close()
	}
}
