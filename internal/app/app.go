package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/study-room-reservation-system/internal/booking"
	"github.com/metinatakli/study-room-reservation-system/internal/config"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/handler"
	"github.com/metinatakli/study-room-reservation-system/internal/payment"
	"github.com/metinatakli/study-room-reservation-system/internal/stats"
	appvalidator "github.com/metinatakli/study-room-reservation-system/internal/validator"
	"github.com/metinatakli/study-room-reservation-system/internal/vcs"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "study-room-api"

var (
	version = vcs.Version()
)

// SweepRunner runs one expiry pass on demand.
type SweepRunner interface {
	RunNow(ctx context.Context) (booking.SweepResult, error)
}

type Application struct {
	config    config.Config
	logger    *slog.Logger
	validator *validator.Validate

	reservations domain.ReservationService
	seats        domain.SeatService
	statistics   domain.StatisticsService
	sweeper      SweepRunner

	paymentProvider domain.PaymentProvider
	health          *handler.HealthcheckHandler
}

func NewApp(
	cfg config.Config,
	logger *slog.Logger,
	validator *validator.Validate,
	reservations domain.ReservationService,
	seats domain.SeatService,
	statistics domain.StatisticsService,
	sweeper SweepRunner,
	paymentProvider domain.PaymentProvider,
	health *handler.HealthcheckHandler) *Application {

	return &Application{
		config:          cfg,
		logger:          logger,
		validator:       validator,
		reservations:    reservations,
		seats:           seats,
		statistics:      statistics,
		sweeper:         sweeper,
		paymentProvider: paymentProvider,
		health:          health,
	}
}

func Run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	if cfg.DisplayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	stores, err := OpenStores(cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	pingers := stores.Pingers()

	var locker booking.SeatLocker = booking.NewLocalSeatLocker()
	if cfg.Redis.URL != "" {
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		locker = booking.NewRedisSeatLocker(redisClient, logger, cfg.Booking.SeatLockTTL)
		pingers["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	engine := booking.NewEngine(
		stores.Reservations,
		stores.Seats,
		stores.Rooms,
		stores.Users,
		booking.WithLocker(locker),
		booking.WithLogger(logger),
		booking.WithLocation(loc),
	)

	aggregator := stats.NewAggregator(stores.Reservations, stores.Seats, stores.Users, stats.WithLocation(loc))
	sweeper := booking.NewSweeper(engine, cfg.Booking.SweepInterval, logger)

	app := NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		engine,
		engine.Seats(),
		aggregator,
		sweeper,
		newPaymentProvider(cfg, logger),
		handler.NewHealthcheckHandler(cfg, logger, pingers),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweeper.Start(ctx)

	return app.run()
}

func newPaymentProvider(cfg config.Config, logger *slog.Logger) domain.PaymentProvider {
	if cfg.Stripe.SecretKey == "" {
		logger.Info("stripe key not set, checkout sessions are settled offline")

		return payment.NewOfflinePaymentProvider(cfg.Stripe.SuccessUrl)
	}

	stripe.Key = cfg.Stripe.SecretKey

	return payment.NewStripePaymentProvider(cfg.Stripe.FailureUrl, cfg.Stripe.SuccessUrl, cfg.Stripe.Currency)
}

// NewRedisClient connects to the shared lock store and verifies it answers.
func NewRedisClient(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := instrumentRedis(rdb)
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
