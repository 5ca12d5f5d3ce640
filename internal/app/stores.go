package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/study-room-reservation-system/internal/config"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/metinatakli/study-room-reservation-system/internal/handler"
	"github.com/metinatakli/study-room-reservation-system/internal/repository"
	"github.com/metinatakli/study-room-reservation-system/migrations"
	"github.com/shopspring/decimal"
)

// Stores bundles the repositories backing one running service.
type Stores struct {
	Reservations domain.ReservationRepository
	Seats        domain.SeatRepository
	Rooms        domain.RoomRepository
	Users        domain.UserRepository

	db *pgxpool.Pool
}

// OpenStores connects to Postgres when a DSN is configured and falls back to
// the in-memory store otherwise.
func OpenStores(cfg config.Config, logger *slog.Logger) (*Stores, error) {
	if cfg.DB.DSN == "" {
		logger.Info("database DSN not set, using the in-memory store")

		store := repository.NewMemoryStore()
		if cfg.Booking.SeedDemoData {
			SeedDemoData(store)
		}

		return &Stores{
			Reservations: store.Reservations(),
			Seats:        store.Seats(),
			Rooms:        store.Rooms(),
			Users:        store.Users(),
		}, nil
	}

	if cfg.DB.Migrate {
		err := migrations.Up(cfg.DB.DSN)
		if err != nil {
			return nil, err
		}

		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	return &Stores{
		Reservations: repository.NewPostgresReservationRepository(db),
		Seats:        repository.NewPostgresSeatRepository(db),
		Rooms:        repository.NewPostgresRoomRepository(db),
		Users:        repository.NewPostgresUserRepository(db),
		db:           db,
	}, nil
}

// Pingers lists the dependencies reported by the healthcheck.
func (s *Stores) Pingers() map[string]handler.Pinger {
	pingers := make(map[string]handler.Pinger)
	if s.db != nil {
		pingers["postgres"] = s.db
	}

	return pingers
}

func (s *Stores) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func NewDatabasePool(cfg config.Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// SeedDemoData fills an empty in-memory store with one round-the-clock room,
// a seat of every type and a single active user.
func SeedDemoData(store *repository.MemoryStore) {
	room := store.AddRoom(domain.Room{
		Name:       "Main Reading Room",
		Capacity:   40,
		HourlyRate: decimal.NewFromInt(10),
	})

	seats := []struct {
		number    string
		seatType  domain.SeatType
		hasWindow bool
	}{
		{"A1", domain.SeatTypeNormal, true},
		{"A2", domain.SeatTypeNormal, false},
		{"Q1", domain.SeatTypeQuiet, false},
		{"G1", domain.SeatTypeGroup, true},
		{"V1", domain.SeatTypeVIP, true},
	}

	for _, s := range seats {
		store.AddSeat(domain.Seat{
			RoomID:         room.ID,
			SeatNumber:     s.number,
			Type:           s.seatType,
			HasWindow:      s.hasWindow,
			HasPowerOutlet: true,
			HasLamp:        s.seatType != domain.SeatTypeGroup,
		})
	}

	store.AddUser(domain.User{
		FirstName: "Demo",
		LastName:  "Student",
		Email:     "demo@example.com",
		IsActive:  true,
	})
}
