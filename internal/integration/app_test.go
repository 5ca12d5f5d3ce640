package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/study-room-reservation-system/internal/app"
	"github.com/metinatakli/study-room-reservation-system/internal/booking"
	"github.com/metinatakli/study-room-reservation-system/internal/config"
	"github.com/metinatakli/study-room-reservation-system/internal/handler"
	"github.com/metinatakli/study-room-reservation-system/internal/payment"
	"github.com/metinatakli/study-room-reservation-system/internal/stats"
	appvalidator "github.com/metinatakli/study-room-reservation-system/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App    *app.Application
	Engine *booking.Engine
	Stores *app.Stores
	DB     *pgxpool.Pool
	Redis  *redis.Client
}

func newTestApp(cfg config.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	stores, err := app.OpenStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		stores.Close()
		db.Close()
		return nil, err
	}

	engine := booking.NewEngine(
		stores.Reservations,
		stores.Seats,
		stores.Rooms,
		stores.Users,
		booking.WithLocker(booking.NewRedisSeatLocker(redisClient, logger, cfg.Booking.SeatLockTTL)),
		booking.WithLogger(logger),
	)

	pingers := stores.Pingers()
	pingers["redis"] = handler.PingFunc(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	application := app.NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		engine,
		engine.Seats(),
		stats.NewAggregator(stores.Reservations, stores.Seats, stores.Users),
		booking.NewSweeper(engine, cfg.Booking.SweepInterval, logger),
		payment.NewOfflinePaymentProvider(cfg.Stripe.SuccessUrl),
		handler.NewHealthcheckHandler(cfg, logger, pingers),
	)

	return &TestApp{
		App:    application,
		Engine: engine,
		Stores: stores,
		DB:     db,
		Redis:  redisClient,
	}, nil
}

func (a *TestApp) Close() {
	a.Redis.Close()
	a.DB.Close()
	a.Stores.Close()
}
