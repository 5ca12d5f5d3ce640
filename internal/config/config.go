// Package config assembles the service configuration from command-line
// flags. Every flag takes its default from an environment variable, and a
// .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int
	Env  string

	DB struct {
		DSN          string
		MaxOpenConns int
		MaxIdleTime  time.Duration
		Migrate      bool
	}

	Redis struct {
		URL          string
		MaxOpenConns int
		MaxIdleConns int
		MaxIdleTime  time.Duration
	}

	Stripe struct {
		SecretKey     string
		WebhookSecret string
		SuccessUrl    string
		FailureUrl    string
		Currency      string
	}

	Booking struct {
		SweepInterval time.Duration
		SeatLockTTL   time.Duration
		Timezone      string
		SeedDemoData  bool
	}

	OtelCollectorUrl string
	DisplayVersion   bool
}

// Location resolves the configured timezone used for opening hours and
// day boundaries.
func (c Config) Location() (*time.Location, error) {
	if c.Booking.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Booking.Timezone, err)
	}

	return loc, nil
}

// Load parses args (without the program name) into a Config.
func Load(args []string) (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	var env envReader

	fs := flag.NewFlagSet("study-room-api", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", env.int("PORT", 3000), "server port")
	fs.StringVar(&cfg.Env, "env", env.str("APP_ENV", "dev"), "Environment (dev|staging|prod)")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", env.str("DB_DSN", ""), "PostgreSQL DSN; the in-memory store is used when empty")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", env.int("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", env.duration("DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")
	fs.BoolVar(&cfg.DB.Migrate, "db-migrate", env.bool("DB_MIGRATE", false), "Apply database migrations on startup")

	fs.StringVar(&cfg.Redis.URL, "redis-url", env.str("REDIS_URL", ""), "Redis address for shared seat locks; in-process locks are used when empty")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", env.int("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", env.int("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", env.duration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	fs.StringVar(&cfg.Stripe.SecretKey, "stripe-key", env.str("STRIPE_KEY", ""), "Stripe secret key; checkout runs offline when empty")
	fs.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", env.str("STRIPE_WEBHOOK_SECRET", ""), "Stripe webhook secret")
	fs.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", env.str("STRIPE_SUCCESS_URL", "https://example.com/success.html"), "Stripe payment success page")
	fs.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", env.str("STRIPE_FAILURE_URL", "https://example.com/failure.html"), "Stripe payment failure page")
	fs.StringVar(&cfg.Stripe.Currency, "currency", env.str("CURRENCY", "usd"), "ISO currency code charged at checkout")

	fs.DurationVar(&cfg.Booking.SweepInterval, "sweep-interval", env.duration("SWEEP_INTERVAL", 30*time.Second), "How often lapsed reservations are closed")
	fs.DurationVar(&cfg.Booking.SeatLockTTL, "seat-lock-ttl", env.duration("SEAT_LOCK_TTL", 10*time.Second), "Expiry of a shared seat lock")
	fs.StringVar(&cfg.Booking.Timezone, "timezone", env.str("TIMEZONE", "UTC"), "IANA zone for opening hours and day boundaries")
	fs.BoolVar(&cfg.Booking.SeedDemoData, "seed-demo", env.bool("SEED_DEMO", true), "Seed a demo room, seats and user into the in-memory store")

	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", env.str("OTEL_COLLECTOR_URL", ""), "OTLP gRPC collector address; telemetry is off when empty")

	fs.BoolVar(&cfg.DisplayVersion, "version", false, "Display version and exit")

	err := env.err()
	if err != nil {
		return Config{}, err
	}

	err = fs.Parse(args)
	if err != nil {
		return Config{}, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.Booking.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("sweep interval must be positive, got %s", cfg.Booking.SweepInterval)
	}

	return cfg, nil
}

// envReader reads flag defaults from the environment. Unset variables fall
// back to the default; malformed ones are collected and reported by err.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func (r *envReader) int(key string, def int) int {
	return parseEnv(r, key, def, strconv.Atoi)
}

func (r *envReader) bool(key string, def bool) bool {
	return parseEnv(r, key, def, strconv.ParseBool)
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	return parseEnv(r, key, def, time.ParseDuration)
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

func parseEnv[T any](r *envReader, key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}

	v, err := parse(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return def
	}

	return v
}
