// README: Booking service applies lifecycle transitions on behalf of the dispatch stand-in.
package booking

import (
	"context"
	"errors"

	"skyride/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid booking status transition")
	ErrNotFound     = errors.New("booking not found")
	ErrBadRequest   = errors.New("bad request")
)

// Repository is the subset of the persistence gateway the service needs.
type Repository interface {
	GetBooking(ctx context.Context, id types.ID) (*Booking, error)
	UpdateBookingStatus(ctx context.Context, id types.ID, from, to Status) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AdvanceCommand struct {
	BookingID types.ID
	To        Status
}

// Advance moves a booking one step along the lifecycle and returns the
// stored row after the update.
func (s *Service) Advance(ctx context.Context, cmd AdvanceCommand) (*Booking, error) {
	if cmd.BookingID == "" || !cmd.To.Valid() {
		return nil, ErrBadRequest
	}
	b, err := s.repo.GetBooking(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, cmd.To) {
		return nil, ErrInvalidState
	}
	if err := s.repo.UpdateBookingStatus(ctx, b.ID, b.Status, cmd.To); err != nil {
		return nil, err
	}
	return s.repo.GetBooking(ctx, b.ID)
}
