// README: Booking flow controller; one per session, drives Location -> Tier -> Summary -> Confirmed.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"skyride/internal/config"
	"skyride/internal/modules/booking"
	"skyride/internal/modules/feedback"
	"skyride/internal/modules/location"
	"skyride/internal/modules/pricing"
	"skyride/internal/modules/tier"
	"skyride/internal/types"
)

type Step string

const (
	StepLocation  Step = "location"
	StepTier      Step = "tier"
	StepSummary   Step = "summary"
	StepConfirmed Step = "confirmed"
)

// Gateway is the persistence the flow depends on. gateway.Postgres and
// gateway.Memory implement it.
type Gateway interface {
	ListActiveTiers(ctx context.Context) ([]tier.Tier, error)
	InsertBooking(ctx context.Context, d booking.Draft) (*booking.Booking, error)
	GetBooking(ctx context.Context, id types.ID) (*booking.Booking, error)
	UpdateBookingStatus(ctx context.Context, id types.ID, from, to booking.Status) error
	ListRecentBookings(ctx context.Context, limit int) ([]booking.Booking, error)
	InsertFeedback(ctx context.Context, d feedback.Draft) error
}

// backgroundTimeout bounds gateway calls made from simulator tasks.
const backgroundTimeout = 10 * time.Second

// Controller serializes intents for a single session. Gateway calls are made
// without holding the lock; results that went stale meanwhile are dropped.
type Controller struct {
	gw    Gateway
	clock Clock
	cfg   config.BookingConfig
	log   logrus.FieldLogger
	sim   *Simulator

	mu          sync.Mutex
	step        Step
	pickup      *location.Location
	destination *location.Location
	tiers       []tier.Tier
	selected    *tier.Tier
	active      *booking.Booking
	recent      []booking.Booking

	submitting         bool
	feedbackOpen       bool
	feedbackSubmitting bool
	closed             bool

	tierSeq, tierApplied     uint64
	recentSeq, recentApplied uint64
}

func NewController(gw Gateway, clock Clock, cfg config.BookingConfig, log logrus.FieldLogger) *Controller {
	return &Controller{
		gw:    gw,
		clock: clock,
		cfg:   cfg,
		log:   log,
		sim:   NewSimulator(clock, cfg.AssignDelay),
		step:  StepLocation,
	}
}

// LoadTiers fetches the active tiers. An older fetch finishing after a newer
// one is ignored.
func (c *Controller) LoadTiers(ctx context.Context) error {
	c.mu.Lock()
	c.tierSeq++
	seq := c.tierSeq
	c.mu.Unlock()

	tiers, err := c.gw.ListActiveTiers(ctx)
	if err != nil {
		return fmt.Errorf("load tiers: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq > c.tierApplied {
		c.tiers = tier.ActiveSorted(tiers)
		c.tierApplied = seq
	}
	return nil
}

// RefreshRecent reloads the recent-bookings list.
func (c *Controller) RefreshRecent(ctx context.Context) error {
	c.mu.Lock()
	c.recentSeq++
	seq := c.recentSeq
	c.mu.Unlock()

	recent, err := c.gw.ListRecentBookings(ctx, c.cfg.RecentLimit)
	if err != nil {
		return fmt.Errorf("refresh recent bookings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq > c.recentApplied {
		c.recent = recent
		c.recentApplied = seq
	}
	return nil
}

func (c *Controller) refreshRecentLogged(ctx context.Context) {
	if err := c.RefreshRecent(ctx); err != nil {
		c.log.WithError(err).Warn("recent bookings refresh failed")
	}
}

func (c *Controller) SelectPickup(loc location.Location) error {
	return c.selectLocation(loc, func(l *location.Location) { c.pickup = l })
}

func (c *Controller) SelectDestination(loc location.Location) error {
	return c.selectLocation(loc, func(l *location.Location) { c.destination = l })
}

func (c *Controller) selectLocation(loc location.Location, set func(*location.Location)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepLocation {
		return ErrInvalidTransition
	}
	if !loc.Valid() {
		return invalid(ReasonInvalidLocation, nil)
	}
	set(&loc)
	return nil
}

// ContinueToTier requires both locations and a distance inside the service radius.
func (c *Controller) ContinueToTier() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepLocation {
		return ErrInvalidTransition
	}
	if c.pickup == nil || c.destination == nil {
		return invalid(ReasonMissingLocation, nil)
	}
	if err := c.checkDistance(location.Distance(*c.pickup, *c.destination)); err != nil {
		return err
	}
	c.step = StepTier
	return nil
}

func (c *Controller) checkDistance(d float64) error {
	switch {
	case d < c.cfg.MinDistanceKm:
		return invalid(ReasonDistanceOutOfRange,
			fmt.Errorf("%w: %.2f km, minimum is %g km", ErrDistanceTooShort, d, c.cfg.MinDistanceKm))
	case d > c.cfg.MaxDistanceKm:
		return invalid(ReasonDistanceOutOfRange,
			fmt.Errorf("%w: %.2f km, maximum is %g km", ErrDistanceTooLong, d, c.cfg.MaxDistanceKm))
	}
	return nil
}

func (c *Controller) SelectTier(id types.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepTier {
		return ErrInvalidTransition
	}
	t, ok := tier.Find(c.tiers, id)
	if !ok {
		return invalid(ReasonUnknownTier, fmt.Errorf("tier %q", id))
	}
	c.selected = &t
	return nil
}

func (c *Controller) ContinueToSummary() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepTier {
		return ErrInvalidTransition
	}
	if c.selected == nil {
		return invalid(ReasonNoTierSelected, nil)
	}
	c.step = StepSummary
	return nil
}

// Back steps Tier -> Location or Summary -> Tier, keeping every selection.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return ErrSubmitInFlight
	}
	switch c.step {
	case StepTier:
		c.step = StepLocation
	case StepSummary:
		c.step = StepTier
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ConfirmBooking inserts the booking and moves to Confirmed. Only one insert
// may be in flight; on failure the flow stays in Summary.
func (c *Controller) ConfirmBooking(ctx context.Context) (*booking.Booking, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if c.step != StepSummary {
		c.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if c.pickup == nil || c.destination == nil {
		c.mu.Unlock()
		return nil, invalid(ReasonMissingLocation, nil)
	}
	if c.selected == nil {
		c.mu.Unlock()
		return nil, invalid(ReasonNoTierSelected, nil)
	}

	now := c.clock.Now()
	d := location.Distance(*c.pickup, *c.destination)
	est := pricing.NewEstimate(c.selected.Rate(), d, now)
	draft := booking.Draft{
		BookingCode:            booking.NewCode(now),
		TierID:                 c.selected.ID,
		Pickup:                 *c.pickup,
		Destination:            *c.destination,
		DistanceKm:             est.DistanceKm,
		EstimatedFare:          est.Fare,
		EstimatedTravelMinutes: est.TravelMinutes,
		PickupTimeStart:        est.PickupStart,
		PickupTimeEnd:          est.PickupEnd,
	}
	c.submitting = true
	c.mu.Unlock()

	b, err := c.gw.InsertBooking(ctx, draft)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).WithField("booking_code", draft.BookingCode).Warn("booking insert failed")
		return nil, fmt.Errorf("confirm booking: %w", err)
	}
	c.active = b
	c.step = StepConfirmed
	c.feedbackOpen = false
	c.sim.CancelAll()
	if !c.closed {
		id := b.ID
		c.sim.Schedule(id, func() { c.assign(id) })
	}
	out := *b
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"booking_id":   b.ID,
		"booking_code": b.BookingCode,
		"tier_id":      b.TierID,
		"distance_km":  b.DistanceKm,
	}).Info("booking confirmed")

	c.refreshRecentLogged(ctx)
	return &out, nil
}

// StartNewBooking clears the session back to Location and cancels the
// pending status flip. Loaded tiers and recent bookings are kept. It is
// rejected while a booking or feedback insert is in flight.
func (c *Controller) StartNewBooking() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting || c.feedbackSubmitting {
		return ErrSubmitInFlight
	}
	if c.step != StepConfirmed {
		return ErrInvalidTransition
	}
	c.sim.CancelAll()
	c.step = StepLocation
	c.pickup = nil
	c.destination = nil
	c.selected = nil
	c.active = nil
	c.feedbackOpen = false
	return nil
}

// assign is the simulated dispatcher: it moves a still-searching booking to
// assigned.
func (c *Controller) assign(id types.ID) {
	if !c.isActive(id) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()
	log := c.log.WithField("booking_id", id)

	current, err := c.gw.GetBooking(ctx, id)
	if err != nil {
		log.WithError(err).Error("simulated assignment: read booking failed")
		return
	}
	if !booking.CanTransition(current.Status, booking.StatusAssigned) {
		// Moved on without us; adopt what the gateway has.
		c.adoptAndRefresh(ctx, id, current)
		return
	}
	if !c.isActive(id) {
		return
	}
	err = c.gw.UpdateBookingStatus(ctx, id, current.Status, booking.StatusAssigned)
	if errors.Is(err, booking.ErrInvalidState) {
		// Changed between our read and write.
		latest, gerr := c.gw.GetBooking(ctx, id)
		if gerr != nil {
			log.WithError(gerr).Error("simulated assignment: re-read booking failed")
			return
		}
		c.adoptAndRefresh(ctx, id, latest)
		return
	}
	if err != nil {
		log.WithError(err).Error("simulated assignment failed")
		return
	}

	c.mu.Lock()
	mirrored := false
	if c.active != nil && c.active.ID == id && booking.CanTransition(c.active.Status, booking.StatusAssigned) {
		c.active.Status = booking.StatusAssigned
		c.active.UpdatedAt = c.clock.Now()
		mirrored = true
	}
	c.mu.Unlock()

	if mirrored {
		log.Info("booking assigned")
		c.refreshRecentLogged(ctx)
	}
}

func (c *Controller) adoptAndRefresh(ctx context.Context, id types.ID, b *booking.Booking) {
	if c.adopt(id, b) {
		c.refreshRecentLogged(ctx)
	}
}

func (c *Controller) isActive(id types.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.active != nil && c.active.ID == id
}

// adopt replaces the held booking with b when b is a later lifecycle point.
func (c *Controller) adopt(id types.ID, b *booking.Booking) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.active.ID != id || !booking.Supersedes(c.active.Status, b.Status) {
		return false
	}
	cp := *b
	c.active = &cp
	if cp.Status.IsTerminal() {
		c.sim.Cancel(id)
	}
	return true
}

// PollStatus re-reads the active booking and takes its status if it moved
// forward. It reports whether anything changed.
func (c *Controller) PollStatus(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return false, ErrInvalidTransition
	}
	id := c.active.ID
	c.mu.Unlock()

	b, err := c.gw.GetBooking(ctx, id)
	if err != nil {
		return false, fmt.Errorf("poll booking status: %w", err)
	}
	changed := c.adopt(id, b)
	if changed {
		c.refreshRecentLogged(ctx)
	}
	return changed, nil
}

func (c *Controller) completedBooking() (types.ID, bool) {
	if c.active == nil || c.active.Status != booking.StatusCompleted {
		return "", false
	}
	return c.active.ID, true
}

func (c *Controller) OpenFeedback() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.completedBooking(); !ok {
		return ErrFeedbackNotAllowed
	}
	c.feedbackOpen = true
	return nil
}

// SubmitFeedback validates before touching the gateway. A gateway failure
// leaves the feedback form open so the user can retry.
func (c *Controller) SubmitFeedback(ctx context.Context, rating int, comment string) error {
	c.mu.Lock()
	id, ok := c.completedBooking()
	if !ok {
		c.mu.Unlock()
		return ErrFeedbackNotAllowed
	}
	if c.feedbackSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	d, err := feedback.NewDraft(id, rating, comment)
	if err != nil {
		c.mu.Unlock()
		switch {
		case errors.Is(err, feedback.ErrRatingOutOfRange):
			return invalid(ReasonRatingOutOfRange, err)
		case errors.Is(err, feedback.ErrCommentTooLong):
			return invalid(ReasonCommentTooLong, err)
		}
		return err
	}
	c.feedbackSubmitting = true
	c.mu.Unlock()

	err = c.gw.InsertFeedback(ctx, d)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedbackSubmitting = false
	if err != nil {
		c.feedbackOpen = true
		return fmt.Errorf("submit feedback: %w", err)
	}
	c.feedbackOpen = false
	return nil
}

func (c *Controller) DismissFeedback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedbackOpen = false
}

// Close cancels any pending simulator task. The controller must not be used
// afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.sim.CancelAll()
}

// PendingTasks returns the number of scheduled status flips.
func (c *Controller) PendingTasks() int {
	return c.sim.Pending()
}
