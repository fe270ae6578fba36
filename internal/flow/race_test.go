package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyride/internal/config"
	"skyride/internal/gateway"
	"skyride/internal/logging"
	"skyride/internal/modules/booking"
	"skyride/internal/modules/feedback"
	"skyride/internal/types"
)

// cancelAfterRead lets a dispatcher cancel the booking right after the next
// GetBooking has returned, so the caller holds a stale status.
type cancelAfterRead struct {
	*gateway.Memory
	dispatcher *booking.Service
	armed      bool
}

func (g *cancelAfterRead) GetBooking(ctx context.Context, id types.ID) (*booking.Booking, error) {
	b, err := g.Memory.GetBooking(ctx, id)
	if err == nil && g.armed {
		g.armed = false
		if _, cerr := g.dispatcher.Advance(ctx, booking.AdvanceCommand{BookingID: id, To: booking.StatusCancelled}); cerr != nil {
			return nil, cerr
		}
	}
	return b, err
}

func TestAssignmentDoesNotResurrectCancelledBooking(t *testing.T) {
	mem := gateway.NewMemory(gateway.DefaultTiers())
	gw := &cancelAfterRead{Memory: mem, dispatcher: booking.NewService(mem)}
	c, clock := newTestController(t, gw)
	driveToSummary(t, c, mgRoad, whitefield, "skyhop")
	b, err := c.ConfirmBooking(context.Background())
	require.NoError(t, err)

	gw.armed = true
	clock.Advance(5 * time.Second)

	stored, err := mem.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)

	v := c.View()
	require.NotNil(t, v.ActiveBooking)
	assert.Equal(t, booking.StatusCancelled, v.ActiveBooking.Status)
	assert.Equal(t, 0, c.PendingTasks())
}

// blockingFeedback holds every feedback insert until a result is sent on
// release.
type blockingFeedback struct {
	*gateway.Memory
	entered chan struct{}
	release chan error
}

func (g *blockingFeedback) InsertFeedback(ctx context.Context, d feedback.Draft) error {
	g.entered <- struct{}{}
	if err := <-g.release; err != nil {
		return err
	}
	return g.Memory.InsertFeedback(ctx, d)
}

func TestFeedbackInFlightBlocksSecondSubmitAndReset(t *testing.T) {
	gw := &blockingFeedback{
		Memory:  gateway.NewMemory(gateway.DefaultTiers()),
		entered: make(chan struct{}, 1),
		release: make(chan error),
	}
	c, _ := newTestController(t, gw)
	driveToSummary(t, c, mgRoad, whitefield, "skyhop")
	_, err := c.ConfirmBooking(context.Background())
	require.NoError(t, err)
	completeActiveBooking(t, c, gw)
	require.NoError(t, c.OpenFeedback())

	first := make(chan error, 1)
	go func() { first <- c.SubmitFeedback(context.Background(), 5, "smooth") }()
	<-gw.entered

	assert.True(t, c.View().IsSubmitting)
	assert.ErrorIs(t, c.SubmitFeedback(context.Background(), 4, ""), ErrSubmitInFlight)
	assert.ErrorIs(t, c.StartNewBooking(), ErrSubmitInFlight)

	gw.release <- connectivityErr("insert feedback")
	require.Error(t, <-first)

	v := c.View()
	assert.Equal(t, StepConfirmed, v.Step)
	require.NotNil(t, v.ActiveBooking)
	assert.True(t, v.FeedbackOpen, "a failed submit stays open for retry")
	assert.False(t, v.IsSubmitting)
	assert.Empty(t, gw.Feedback())

	go func() { first <- c.SubmitFeedback(context.Background(), 5, "smooth") }()
	<-gw.entered
	gw.release <- nil
	require.NoError(t, <-first)
	assert.False(t, c.View().FeedbackOpen)
	assert.Len(t, gw.Feedback(), 1)
	require.NoError(t, c.StartNewBooking())
}

// slowRecent holds the first recent-bookings fetch until released and
// serves it an empty list.
type slowRecent struct {
	*gateway.Memory
	calls   chan int
	release chan struct{}
	n       int
}

func (g *slowRecent) ListRecentBookings(ctx context.Context, limit int) ([]booking.Booking, error) {
	g.n++
	call := g.n
	g.calls <- call
	if call == 1 {
		<-g.release
		return nil, nil
	}
	return g.Memory.ListRecentBookings(ctx, limit)
}

func TestStaleRecentFetchIsDiscarded(t *testing.T) {
	mem := gateway.NewMemory(gateway.DefaultTiers())
	_, err := mem.InsertBooking(context.Background(), booking.Draft{
		BookingCode: "SR00000042",
		TierID:      "skyhop",
		Pickup:      mgRoad,
		Destination: whitefield,
	})
	require.NoError(t, err)

	gw := &slowRecent{Memory: mem, calls: make(chan int, 2), release: make(chan struct{})}
	c := NewController(gw, newFakeClock(), config.DefaultBooking(), logging.Discard())
	t.Cleanup(c.Close)

	done := make(chan error, 1)
	go func() { done <- c.RefreshRecent(context.Background()) }()
	require.Equal(t, 1, <-gw.calls)

	require.NoError(t, c.RefreshRecent(context.Background()))
	require.Equal(t, 2, <-gw.calls)
	require.Len(t, c.View().RecentBookings, 1)

	close(gw.release)
	require.NoError(t, <-done)

	recent := c.View().RecentBookings
	require.Len(t, recent, 1, "the older, empty result must not replace the newer one")
	assert.Equal(t, "SR00000042", recent[0].BookingCode)
}
