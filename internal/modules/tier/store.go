// README: Tier store backed by PostgreSQL.
package tier

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

func (s *Store) ListActive(ctx context.Context) ([]Tier, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, max_passengers, base_fare, per_km_rate,
		       estimated_arrival_minutes, is_active, display_order
		FROM taxi_tiers
		WHERE is_active = TRUE
		ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tier
	for rows.Next() {
		var t Tier
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.MaxPassengers, &t.BaseFare, &t.PerKmRate,
			&t.EstimatedArrivalMinutes, &t.IsActive, &t.DisplayOrder,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
