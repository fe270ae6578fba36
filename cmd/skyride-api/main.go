// README: Entry point; loads config, wires the gateway and booking flow, starts HTTP server and the session janitor.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"skyride/internal/config"
	"skyride/internal/flow"
	"skyride/internal/gateway"
	httptransport "skyride/internal/http"
	"skyride/internal/infra"
	"skyride/internal/logging"
	"skyride/internal/modules/booking"
	"skyride/internal/modules/location"
	"skyride/internal/modules/tier"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	log := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, cleanup, err := buildGateway(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("gateway init failed")
	}
	defer cleanup()

	var searcher location.Searcher
	if cfg.Maps.APIKey != "" {
		places, err := location.NewPlacesSearcher(cfg.Maps.APIKey)
		if err != nil {
			log.WithError(err).Fatal("places client init failed")
		}
		searcher = places
	}
	locationSvc := location.NewService(searcher, log)
	bookingSvc := booking.NewService(gw)

	clock := flow.RealClock()
	sessions := flow.NewRegistry(func() *flow.Controller {
		return flow.NewController(gw, clock, cfg.Booking, log)
	}, clock, cfg.Booking.SessionIdle, log)
	defer sessions.CloseAll()

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Sessions:    sessions,
		Gateway:     gw,
		Locations:   locationSvc,
		Bookings:    bookingSvc,
		RecentLimit: cfg.Booking.RecentLimit,
		Log:         log,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go sessions.RunJanitor(ctx, janitorInterval)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http shutdown")
		}
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("skyride api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server stopped")
	}
}

// buildGateway picks Postgres when a DSN is configured and the in-memory
// gateway otherwise. The Redis tier cache is attached only to Postgres.
func buildGateway(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (flow.Gateway, func(), error) {
	if cfg.DB.DSN == "" {
		log.Warn("SKYRIDE_DB_DSN not set; bookings are kept in memory")
		return gateway.NewMemory(gateway.DefaultTiers()), func() {}, nil
	}

	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	cleanup := db.Close

	var cache *tier.Cache
	if cfg.Redis.Addr != "" {
		c, closeRedis, err := openTierCache(ctx, cfg.Redis.Addr, cfg.Redis.TierCacheTTL, log)
		if err != nil {
			log.WithError(err).Warn("redis unavailable; tier cache disabled")
		} else {
			cache = c
			cleanup = func() {
				closeRedis()
				db.Close()
			}
		}
	}
	return gateway.NewPostgres(db, cache, log), cleanup, nil
}

// openTierCache connects to Redis and flushes the cached tier list, since
// tier rows may have changed while the process was down.
func openTierCache(ctx context.Context, addr string, ttl time.Duration, log logrus.FieldLogger) (*tier.Cache, func(), error) {
	rdb, err := infra.NewRedis(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	cache := tier.NewCache(rdb, ttl)
	if err := cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("tier cache flush failed")
	}
	return cache, func() { _ = rdb.Close() }, nil
}
