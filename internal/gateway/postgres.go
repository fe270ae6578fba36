// README: Postgres gateway composing module stores and the Redis tier cache.
package gateway

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"skyride/internal/modules/booking"
	"skyride/internal/modules/feedback"
	"skyride/internal/modules/tier"
	"skyride/internal/types"
)

// Postgres is the production gateway. The tier cache is optional.
type Postgres struct {
	tiers    *tier.Store
	cache    *tier.Cache
	bookings *booking.Store
	feedback *feedback.Store
	log      logrus.FieldLogger
}

func NewPostgres(db *pgxpool.Pool, cache *tier.Cache, log logrus.FieldLogger) *Postgres {
	return &Postgres{
		tiers:    tier.NewStore(db),
		cache:    cache,
		bookings: booking.NewStore(db),
		feedback: feedback.NewStore(db),
		log:      log,
	}
}

// ListActiveTiers serves from the cache when possible. Cache failures are
// logged and fall through to the database.
func (p *Postgres) ListActiveTiers(ctx context.Context) ([]tier.Tier, error) {
	if p.cache != nil {
		tiers, ok, err := p.cache.Get(ctx)
		if err != nil {
			p.log.WithError(err).Warn("tier cache read failed")
		}
		if ok {
			return tiers, nil
		}
	}

	tiers, err := p.tiers.ListActive(ctx)
	if err != nil {
		return nil, classify("list tiers", err)
	}
	if p.cache != nil {
		if err := p.cache.Set(ctx, tiers); err != nil {
			p.log.WithError(err).Warn("tier cache write failed")
		}
	}
	return tiers, nil
}

func (p *Postgres) InsertBooking(ctx context.Context, d booking.Draft) (*booking.Booking, error) {
	b, err := p.bookings.Insert(ctx, d)
	if err != nil {
		return nil, classify("insert booking", err)
	}
	return b, nil
}

func (p *Postgres) GetBooking(ctx context.Context, id types.ID) (*booking.Booking, error) {
	b, err := p.bookings.Get(ctx, id)
	if err != nil {
		return nil, classify("get booking", err)
	}
	return b, nil
}

func (p *Postgres) UpdateBookingStatus(ctx context.Context, id types.ID, from, to booking.Status) error {
	return classify("update booking status", p.bookings.UpdateStatus(ctx, id, from, to))
}

func (p *Postgres) ListRecentBookings(ctx context.Context, limit int) ([]booking.Booking, error) {
	out, err := p.bookings.ListRecent(ctx, limit)
	if err != nil {
		return nil, classify("list recent bookings", err)
	}
	return out, nil
}

func (p *Postgres) InsertFeedback(ctx context.Context, d feedback.Draft) error {
	return classify("insert feedback", p.feedback.Insert(ctx, d))
}
