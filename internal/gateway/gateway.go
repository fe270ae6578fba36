// README: Persistence gateway for tiers, bookings and feedback; errors carry a kind the flow can map.
package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"skyride/internal/modules/booking"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConstraint   Kind = "constraint"
	KindConnectivity Kind = "connectivity"
)

// Error is returned by every gateway operation that fails.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a gateway Error of kind k.
func IsKind(err error, k Kind) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == k
}

// classify wraps a driver error with its gateway kind. Postgres SQLSTATE
// class 23 is an integrity constraint violation; a status write whose
// expected status no longer holds is reported the same way.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		return err
	}
	kind := KindConnectivity
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		kind = KindNotFound
	case errors.Is(err, booking.ErrInvalidState):
		kind = KindConstraint
	case errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23"):
		kind = KindConstraint
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
