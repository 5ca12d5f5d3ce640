package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

const seatColumns = `
	id, room_id, seat_number, type, has_window, has_power_outlet, has_lamp,
	status, created_at, updated_at`

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetById(ctx context.Context, id int) (*domain.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`

	var seat domain.Seat

	err := p.db.QueryRow(ctx, query, id).Scan(seatDest(&seat)...)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}

		return nil, err
	}

	return &seat, nil
}

func (p *PostgresSeatRepository) GetByRoomId(
	ctx context.Context,
	roomId int,
	pagination domain.Pagination) ([]domain.Seat, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), ` + seatColumns + `
		FROM seats
		WHERE room_id = $1
		ORDER BY seat_number, id
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, roomId, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	totalRecords := 0

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(append([]any{&totalRecords}, seatDest(&seat)...)...)
		if err != nil {
			return nil, nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return seats, metadata, nil
}

func (p *PostgresSeatRepository) UpdateStatus(
	ctx context.Context,
	id int,
	to domain.SeatStatus,
	from ...domain.SeatStatus) (bool, error) {

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	query := `
		UPDATE seats
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND (cardinality($3::text[]) = 0 OR status = ANY($3))
	`

	tag, err := p.db.Exec(ctx, query, string(to), id, allowed)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool

	err = p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}

	if !exists {
		return false, domain.ErrSeatNotFound
	}

	return false, nil
}

func seatDest(seat *domain.Seat) []any {
	return []any{
		&seat.ID,
		&seat.RoomID,
		&seat.SeatNumber,
		&seat.Type,
		&seat.HasWindow,
		&seat.HasPowerOutlet,
		&seat.HasLamp,
		&seat.Status,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	}
}
