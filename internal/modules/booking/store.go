// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skyride/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const bookingColumns = `
	b.id, b.booking_id, b.tier_id, COALESCE(t.name, ''),
	b.pickup_latitude, b.pickup_longitude, b.pickup_address,
	b.destination_latitude, b.destination_longitude, b.destination_address,
	b.distance_km, b.estimated_fare, b.final_fare, b.estimated_travel_minutes,
	b.pickup_time_start, b.pickup_time_end, b.status, b.payment_status,
	b.created_at, b.updated_at, b.cancelled_at, b.completed_at`

// Insert writes a new booking and returns the stored row joined with its
// tier name. Status and payment status take the table defaults.
func (s *Store) Insert(ctx context.Context, d Draft) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		WITH b AS (
			INSERT INTO bookings (
				booking_id, tier_id,
				pickup_latitude, pickup_longitude, pickup_address,
				destination_latitude, destination_longitude, destination_address,
				distance_km, estimated_fare, estimated_travel_minutes,
				pickup_time_start, pickup_time_end, status
			) VALUES (
				$1, $2,
				$3, $4, $5,
				$6, $7, $8,
				$9, $10, $11,
				$12, $13, $14
			)
			RETURNING *
		)
		SELECT `+bookingColumns+`
		FROM b
		LEFT JOIN taxi_tiers t ON t.id = b.tier_id`,
		d.BookingCode, string(d.TierID),
		d.Pickup.Latitude, d.Pickup.Longitude, d.Pickup.Address,
		d.Destination.Latitude, d.Destination.Longitude, d.Destination.Address,
		d.DistanceKm, d.EstimatedFare, d.EstimatedTravelMinutes,
		d.PickupTimeStart, d.PickupTimeEnd, string(StatusSearching),
	)
	return scanBooking(row)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN taxi_tiers t ON t.id = b.tier_id
		WHERE b.id = $1`, string(id),
	)
	return scanBooking(row)
}

// UpdateStatus moves a booking from one status to another and stamps
// completed_at / cancelled_at for terminal statuses. The write only applies
// while the row still holds from; otherwise ErrInvalidState is returned.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $2 AND status = $3`,
		string(to),
		string(id),
		string(from),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, string(id)).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidState
}

// ListRecent returns the newest bookings first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN taxi_tiers t ON t.id = b.tier_id
		ORDER BY b.created_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.BookingCode, &b.TierID, &b.TierName,
		&b.Pickup.Latitude, &b.Pickup.Longitude, &b.Pickup.Address,
		&b.Destination.Latitude, &b.Destination.Longitude, &b.Destination.Address,
		&b.DistanceKm, &b.EstimatedFare, &b.FinalFare, &b.EstimatedTravelMinutes,
		&b.PickupTimeStart, &b.PickupTimeEnd, &b.Status, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt, &b.CancelledAt, &b.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
