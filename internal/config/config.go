// README: Config loader with env defaults for HTTP, DB, Redis, maps, and booking flow settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type BookingConfig struct {
	MinDistanceKm float64
	MaxDistanceKm float64
	AssignDelay   time.Duration
	RecentLimit   int
	SessionIdle   time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr         string
		TierCacheTTL time.Duration
	}
	Maps struct {
		APIKey string
	}
	Log struct {
		Level string
	}
	Booking BookingConfig
}

// Load reads an optional .env file and then the process environment.
// An empty DB DSN selects the in-memory gateway; an empty Redis address
// disables the tier cache.
func Load() (Config, error) {
	_ = godotenv.Load(envOrDefault("SKYRIDE_ENV_FILE", ".env"))

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("SKYRIDE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("SKYRIDE_DB_DSN")
	cfg.Redis.Addr = os.Getenv("SKYRIDE_REDIS_ADDR")
	cfg.Redis.TierCacheTTL = time.Duration(envOrDefaultInt("SKYRIDE_TIER_CACHE_TTL_SEC", 300)) * time.Second
	cfg.Maps.APIKey = os.Getenv("SKYRIDE_MAPS_API_KEY")
	cfg.Log.Level = envOrDefault("SKYRIDE_LOG_LEVEL", "info")
	cfg.Booking = DefaultBooking()
	cfg.Booking.MinDistanceKm = envOrDefaultFloat("SKYRIDE_MIN_DISTANCE_KM", cfg.Booking.MinDistanceKm)
	cfg.Booking.MaxDistanceKm = envOrDefaultFloat("SKYRIDE_MAX_DISTANCE_KM", cfg.Booking.MaxDistanceKm)
	cfg.Booking.AssignDelay = time.Duration(envOrDefaultInt("SKYRIDE_ASSIGN_DELAY_MS", 5000)) * time.Millisecond
	cfg.Booking.RecentLimit = envOrDefaultInt("SKYRIDE_RECENT_LIMIT", cfg.Booking.RecentLimit)
	cfg.Booking.SessionIdle = time.Duration(envOrDefaultInt("SKYRIDE_SESSION_IDLE_MIN", 30)) * time.Minute

	if cfg.Redis.TierCacheTTL <= 0 {
		return Config{}, fmt.Errorf("config: SKYRIDE_TIER_CACHE_TTL_SEC must be positive, got %s", cfg.Redis.TierCacheTTL)
	}
	if err := cfg.Booking.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

var ErrInvalidBooking = errors.New("invalid booking config")

// Validate rejects settings the booking flow cannot run with.
func (b BookingConfig) Validate() error {
	switch {
	case b.MinDistanceKm < 0:
		return fmt.Errorf("%w: min distance %.2f km is negative", ErrInvalidBooking, b.MinDistanceKm)
	case b.MinDistanceKm > b.MaxDistanceKm:
		return fmt.Errorf("%w: min distance %.2f km exceeds max %.2f km", ErrInvalidBooking, b.MinDistanceKm, b.MaxDistanceKm)
	case b.AssignDelay <= 0:
		return fmt.Errorf("%w: assign delay must be positive, got %s", ErrInvalidBooking, b.AssignDelay)
	case b.RecentLimit < 1:
		return fmt.Errorf("%w: recent limit must be at least 1, got %d", ErrInvalidBooking, b.RecentLimit)
	case b.SessionIdle <= 0:
		return fmt.Errorf("%w: session idle timeout must be positive, got %s", ErrInvalidBooking, b.SessionIdle)
	}
	return nil
}

// DefaultBooking returns the service-area and simulation defaults.
func DefaultBooking() BookingConfig {
	return BookingConfig{
		MinDistanceKm: 1,
		MaxDistanceKm: 50,
		AssignDelay:   5 * time.Second,
		RecentLimit:   3,
		SessionIdle:   30 * time.Minute,
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}
