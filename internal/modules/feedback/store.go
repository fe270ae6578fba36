// README: Feedback store backed by PostgreSQL (insert only).
package feedback

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, d Draft) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO feedback (booking_id, rating, comment)
		VALUES ($1, $2, $3)`,
		string(d.BookingID),
		d.Rating,
		d.Comment,
	)
	return err
}
