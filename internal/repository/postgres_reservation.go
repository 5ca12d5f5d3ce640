package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

const reservationColumns = `
	id, code, user_id, seat_id, start_time, end_time, status, payment_status,
	payment_method, total_amount, paid_at, check_in_time, check_out_time,
	note, created_at, updated_at, version`

const reservationInsertColumns = `
	code, user_id, seat_id, start_time, end_time, status, payment_status,
	payment_method, total_amount, paid_at, check_in_time, check_out_time, note`

// updateReservationQuery writes every mutable column and bumps the version
// only when the caller still holds the latest one.
const updateReservationQuery = `
	UPDATE reservations
	SET start_time = $1,
		end_time = $2,
		status = $3,
		payment_status = $4,
		payment_method = $5,
		total_amount = $6,
		paid_at = $7,
		check_in_time = $8,
		check_out_time = $9,
		note = $10,
		updated_at = NOW(),
		version = version + 1
	WHERE id = $11 AND version = $12
	RETURNING updated_at, version
`

const (
	reservationCodeConstraint = "reservations_code_key"
	reservationUserConstraint = "reservations_user_id_fkey"
	reservationSeatConstraint = "reservations_seat_id_fkey"
)

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

// Create locks the seat row for the duration of the insert. The exclusion
// constraint on reservations is what finally rules out overlapping ACTIVE
// windows, even for writers that bypass the seat lock.
func (p *PostgresReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var seatId int

		err := tx.QueryRow(ctx, `SELECT id FROM seats WHERE id = $1 FOR UPDATE`, r.SeatID).Scan(&seatId)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrSeatNotFound
			}

			return err
		}

		query := `
			INSERT INTO reservations (` + reservationInsertColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, created_at, updated_at, version
		`

		return tx.QueryRow(
			ctx,
			query,
			r.Code,
			r.UserID,
			r.SeatID,
			r.StartTime,
			r.EndTime,
			r.Status,
			r.PaymentStatus,
			r.PaymentMethod,
			r.TotalAmount,
			r.PaidAt,
			r.CheckInTime,
			r.CheckOutTime,
			r.Note,
		).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.Version)
	})

	return translateWriteError(err)
}

func (p *PostgresReservationRepository) Update(ctx context.Context, r *domain.Reservation) error {
	err := p.db.QueryRow(
		ctx,
		updateReservationQuery,
		r.StartTime,
		r.EndTime,
		r.Status,
		r.PaymentStatus,
		r.PaymentMethod,
		r.TotalAmount,
		r.PaidAt,
		r.CheckInTime,
		r.CheckOutTime,
		r.Note,
		r.ID,
		r.Version,
	).Scan(&r.UpdatedAt, &r.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return translateWriteError(err)
	}

	return nil
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	return p.getOne(ctx, query, id)
}

func (p *PostgresReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1`

	return p.getOne(ctx, query, code)
}

func (p *PostgresReservationRepository) getOne(ctx context.Context, query string, arg any) (*domain.Reservation, error) {
	var r domain.Reservation

	err := scanReservation(p.db.QueryRow(ctx, query, arg), &r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &r, nil
}

func (p *PostgresReservationRepository) FindOverlapping(
	ctx context.Context,
	seatId int,
	start, end time.Time,
	excludeId int) ([]domain.Reservation, error) {

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE seat_id = $1
			AND status = 'ACTIVE'
			AND start_time < $3
			AND $2 < end_time
			AND id <> $4
		ORDER BY start_time
	`

	rows, err := p.db.Query(ctx, query, seatId, start, end, excludeId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)

	for rows.Next() {
		var r domain.Reservation

		err = scanReservation(rows, &r)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (p *PostgresReservationRepository) Find(
	ctx context.Context,
	filter domain.ReservationFilter,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	where, args := reservationFilterClause(filter)

	column, ok := domain.ReservationSortColumns[pagination.SortColumn()]
	if !ok {
		column = "id"
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), %s
		FROM reservations
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, reservationColumns, where, column, pagination.SortDirection(), len(args)+1, len(args)+2)

	args = append(args, pagination.Limit(), pagination.Offset())

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	totalRecords := 0

	for rows.Next() {
		var r domain.Reservation

		err = rows.Scan(append([]any{&totalRecords}, reservationDest(&r)...)...)
		if err != nil {
			return nil, nil, err
		}

		reservations = append(reservations, r)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return reservations, metadata, nil
}

// reservationFilterClause renders filter as a WHERE clause with positional
// arguments starting at $1.
func reservationFilterClause(filter domain.ReservationFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.SeatID != nil {
		add("seat_id = $%d", *filter.SeatID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("status = ANY($%d)", statuses)
	}
	if len(filter.PaymentStatuses) > 0 {
		statuses := make([]string, len(filter.PaymentStatuses))
		for i, s := range filter.PaymentStatuses {
			statuses[i] = string(s)
		}
		add("payment_status = ANY($%d)", statuses)
	}
	if filter.UnpaidOnly {
		add("payment_status <> $%d", string(domain.PaymentStatusPaid))
	}
	if filter.CheckedIn != nil {
		if *filter.CheckedIn {
			conditions = append(conditions, "check_in_time IS NOT NULL")
		} else {
			conditions = append(conditions, "check_in_time IS NULL")
		}
	}
	if filter.StartFrom != nil {
		add("start_time >= $%d", *filter.StartFrom)
	}
	if filter.StartBefore != nil {
		add("start_time < $%d", *filter.StartBefore)
	}
	if filter.EndFrom != nil {
		add("end_time >= $%d", *filter.EndFrom)
	}
	if filter.EndBefore != nil {
		add("end_time < $%d", *filter.EndBefore)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanReservation(row pgx.Row, r *domain.Reservation) error {
	return row.Scan(reservationDest(r)...)
}

func reservationDest(r *domain.Reservation) []any {
	return []any{
		&r.ID,
		&r.Code,
		&r.UserID,
		&r.SeatID,
		&r.StartTime,
		&r.EndTime,
		&r.Status,
		&r.PaymentStatus,
		&r.PaymentMethod,
		&r.TotalAmount,
		&r.PaidAt,
		&r.CheckInTime,
		&r.CheckOutTime,
		&r.Note,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.Version,
	}
}

func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return domain.ErrTimeConflict
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == reservationCodeConstraint {
			return domain.ErrDuplicateCode
		}
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case reservationUserConstraint:
			return domain.ErrUserNotFound
		case reservationSeatConstraint:
			return domain.ErrSeatNotFound
		}
	}

	return err
}
