package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skyride/internal/config"
	"skyride/internal/gateway"
	"skyride/internal/logging"
	"skyride/internal/modules/booking"
	"skyride/internal/modules/feedback"
	"skyride/internal/modules/location"
	"skyride/internal/modules/tier"
	"skyride/internal/types"
)

var (
	mgRoad     = location.Location{Latitude: 12.9762, Longitude: 77.6033, Address: "MG Road"}
	whitefield = location.Location{Latitude: 12.9698, Longitude: 77.7499, Address: "Whitefield"}
)

// north returns a point dLat degrees north of MG Road.
func north(dLat float64) location.Location {
	return location.Location{Latitude: mgRoad.Latitude + dLat, Longitude: mgRoad.Longitude, Address: "north"}
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// faultyGateway wraps the in-memory gateway with injectable failures and
// call counters.
type faultyGateway struct {
	*gateway.Memory

	mu            sync.Mutex
	insertErr     error
	updateErr     error
	feedbackErr   error
	updateCalls   int
	feedbackCalls int
}

func newFaultyGateway() *faultyGateway {
	return &faultyGateway{Memory: gateway.NewMemory(gateway.DefaultTiers())}
}

func (g *faultyGateway) InsertBooking(ctx context.Context, d booking.Draft) (*booking.Booking, error) {
	g.mu.Lock()
	err := g.insertErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return g.Memory.InsertBooking(ctx, d)
}

func (g *faultyGateway) UpdateBookingStatus(ctx context.Context, id types.ID, from, to booking.Status) error {
	g.mu.Lock()
	g.updateCalls++
	err := g.updateErr
	g.mu.Unlock()
	if err != nil {
		return err
	}
	return g.Memory.UpdateBookingStatus(ctx, id, from, to)
}

func (g *faultyGateway) InsertFeedback(ctx context.Context, d feedback.Draft) error {
	g.mu.Lock()
	g.feedbackCalls++
	err := g.feedbackErr
	g.mu.Unlock()
	if err != nil {
		return err
	}
	return g.Memory.InsertFeedback(ctx, d)
}

func (g *faultyGateway) counts() (updates, feedbacks int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updateCalls, g.feedbackCalls
}

func connectivityErr(op string) error {
	return &gateway.Error{Op: op, Kind: gateway.KindConnectivity, Err: context.DeadlineExceeded}
}

func newTestController(t *testing.T, gw Gateway) (*Controller, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	c := NewController(gw, clock, config.DefaultBooking(), logging.Discard())
	require.NoError(t, c.LoadTiers(context.Background()))
	t.Cleanup(c.Close)
	return c, clock
}

// driveToSummary walks a fresh controller to the Summary step.
func driveToSummary(t *testing.T, c *Controller, pickup, dest location.Location, tierID types.ID) {
	t.Helper()
	require.NoError(t, c.SelectPickup(pickup))
	require.NoError(t, c.SelectDestination(dest))
	require.NoError(t, c.ContinueToTier())
	require.NoError(t, c.SelectTier(tierID))
	require.NoError(t, c.ContinueToSummary())
}

func skyhop(t *testing.T) tier.Tier {
	t.Helper()
	st, ok := tier.Find(gateway.DefaultTiers(), "skyhop")
	require.True(t, ok)
	return st
}

// setStatus plays an external dispatcher moving a booking to any status.
func setStatus(t *testing.T, gw Gateway, id types.ID, to booking.Status) {
	t.Helper()
	ctx := context.Background()
	b, err := gw.GetBooking(ctx, id)
	require.NoError(t, err)
	require.NoError(t, gw.UpdateBookingStatus(ctx, id, b.Status, to))
}
