// README: In-memory gateway used without a database and in tests.
package gateway

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"skyride/internal/modules/booking"
	"skyride/internal/modules/feedback"
	"skyride/internal/modules/tier"
	"skyride/internal/types"
)

// DefaultTiers mirrors the seed rows of migrations/0001_init.sql.
func DefaultTiers() []tier.Tier {
	return []tier.Tier{
		{ID: "skyhop", Name: "SkyHop", Description: "Compact two-seater for quick hops across the city", MaxPassengers: 2, BaseFare: 100, PerKmRate: 15, EstimatedArrivalMinutes: 5, IsActive: true, DisplayOrder: 1},
		{ID: "skycomfort", Name: "SkyComfort", Description: "Four-seat cabin with extra legroom", MaxPassengers: 4, BaseFare: 180, PerKmRate: 22, EstimatedArrivalMinutes: 8, IsActive: true, DisplayOrder: 2},
		{ID: "skyluxe", Name: "SkyLuxe", Description: "Private six-seat cabin with concierge service", MaxPassengers: 6, BaseFare: 350, PerKmRate: 40, EstimatedArrivalMinutes: 12, IsActive: true, DisplayOrder: 3},
	}
}

// Memory is an in-process gateway used when no database is configured and
// in tests. It enforces the same foreign keys and checks as the schema.
type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	tiers    []tier.Tier
	bookings []*booking.Booking
	feedback []feedback.Feedback
}

func NewMemory(tiers []tier.Tier) *Memory {
	cp := make([]tier.Tier, len(tiers))
	copy(cp, tiers)
	return &Memory{now: time.Now, tiers: cp}
}

// WithClock overrides the timestamp source.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) ListActiveTiers(_ context.Context) ([]tier.Tier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return tier.ActiveSorted(m.tiers), nil
}

func (m *Memory) InsertBooking(_ context.Context, d booking.Draft) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := tier.Find(m.tiers, d.TierID)
	if !ok {
		return nil, &Error{Op: "insert booking", Kind: KindConstraint, Err: errors.New("unknown tier " + string(d.TierID))}
	}
	if d.BookingCode == "" {
		return nil, &Error{Op: "insert booking", Kind: KindConstraint, Err: errors.New("booking code is required")}
	}

	now := m.now()
	start, end := d.PickupTimeStart, d.PickupTimeEnd
	b := &booking.Booking{
		ID:                     types.ID(uuid.NewString()),
		BookingCode:            d.BookingCode,
		TierID:                 d.TierID,
		TierName:               t.Name,
		Pickup:                 d.Pickup,
		Destination:            d.Destination,
		DistanceKm:             d.DistanceKm,
		EstimatedFare:          d.EstimatedFare,
		EstimatedTravelMinutes: d.EstimatedTravelMinutes,
		PickupTimeStart:        &start,
		PickupTimeEnd:          &end,
		Status:                 booking.StatusSearching,
		PaymentStatus:          booking.DefaultPaymentStatus,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	m.bookings = append(m.bookings, b)
	cp := *b
	return &cp, nil
}

func (m *Memory) GetBooking(_ context.Context, id types.ID) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.find(id)
	if b == nil {
		return nil, &Error{Op: "get booking", Kind: KindNotFound, Err: booking.ErrNotFound}
	}
	cp := *b
	return &cp, nil
}

// UpdateBookingStatus applies the move only while the booking still holds
// from, matching the guarded UPDATE of the Postgres store.
func (m *Memory) UpdateBookingStatus(_ context.Context, id types.ID, from, status booking.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !status.Valid() {
		return &Error{Op: "update booking status", Kind: KindConstraint, Err: errors.New("unknown status " + string(status))}
	}
	b := m.find(id)
	if b == nil {
		return &Error{Op: "update booking status", Kind: KindNotFound, Err: booking.ErrNotFound}
	}
	if b.Status != from {
		return &Error{Op: "update booking status", Kind: KindConstraint, Err: booking.ErrInvalidState}
	}
	now := m.now()
	b.Status = status
	b.UpdatedAt = now
	switch status {
	case booking.StatusCompleted:
		b.CompletedAt = &now
	case booking.StatusCancelled:
		b.CancelledAt = &now
	}
	return nil
}

func (m *Memory) ListRecentBookings(_ context.Context, limit int) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]booking.Booking, 0, len(m.bookings))
	for i := len(m.bookings) - 1; i >= 0; i-- {
		out = append(out, *m.bookings[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) InsertFeedback(_ context.Context, d feedback.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(d.BookingID) == nil {
		return &Error{Op: "insert feedback", Kind: KindConstraint, Err: errors.New("unknown booking " + string(d.BookingID))}
	}
	if d.Rating < feedback.MinRating || d.Rating > feedback.MaxRating {
		return &Error{Op: "insert feedback", Kind: KindConstraint, Err: feedback.ErrRatingOutOfRange}
	}
	m.feedback = append(m.feedback, feedback.Feedback{
		ID:        types.ID(uuid.NewString()),
		BookingID: d.BookingID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: m.now(),
	})
	return nil
}

// Feedback returns a copy of every stored feedback row.
func (m *Memory) Feedback() []feedback.Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]feedback.Feedback, len(m.feedback))
	copy(out, m.feedback)
	return out
}

// BookingCount returns the number of stored bookings.
func (m *Memory) BookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *Memory) find(id types.ID) *booking.Booking {
	for _, b := range m.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}
