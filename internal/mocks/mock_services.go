package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockReservationService struct {
	mock.Mock
	domain.ReservationService
}

func (m *MockReservationService) reservation(args mock.Arguments) (*domain.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) page(args mock.Arguments) ([]domain.Reservation, *domain.Metadata, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockReservationService) Create(ctx context.Context, input domain.CreateReservationInput) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, input))
}

func (m *MockReservationService) Pay(ctx context.Context, id int, method string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id, method))
}

func (m *MockReservationService) CheckIn(ctx context.Context, id int) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *MockReservationService) CheckOut(ctx context.Context, id int) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *MockReservationService) Cancel(ctx context.Context, id int, reason string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id, reason))
}

func (m *MockReservationService) Extend(ctx context.Context, id int, newEndTime time.Time) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id, newEndTime))
}

func (m *MockReservationService) Update(
	ctx context.Context,
	id int,
	input domain.UpdateReservationInput) (*domain.Reservation, error) {

	return m.reservation(m.Called(ctx, id, input))
}

func (m *MockReservationService) Refund(ctx context.Context, id int) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *MockReservationService) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *MockReservationService) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, code))
}

func (m *MockReservationService) ListByUser(
	ctx context.Context,
	userId int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.page(m.Called(ctx, userId, pagination))
}

func (m *MockReservationService) ListBySeat(
	ctx context.Context,
	seatId int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.page(m.Called(ctx, seatId, pagination))
}

func (m *MockReservationService) ListToday(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.page(m.Called(ctx, pagination))
}

func (m *MockReservationService) ListActive(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.page(m.Called(ctx, pagination))
}

func (m *MockReservationService) ListExpiringWithin(
	ctx context.Context,
	minutes int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.page(m.Called(ctx, minutes, pagination))
}

func (m *MockReservationService) ListExpiredUnpaid(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.page(m.Called(ctx, pagination))
}

func (m *MockReservationService) HasTimeConflict(
	ctx context.Context,
	seatId int,
	start, end time.Time,
	excludeId int) (bool, error) {

	args := m.Called(ctx, seatId, start, end, excludeId)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationService) CalculateCost(
	ctx context.Context,
	seatId int,
	start, end time.Time) (decimal.Decimal, error) {

	args := m.Called(ctx, seatId, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockSeatService struct {
	mock.Mock
	domain.SeatService
}

func (m *MockSeatService) GetSeat(ctx context.Context, seatId int) (*domain.Seat, error) {
	args := m.Called(ctx, seatId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockSeatService) ListByRoom(
	ctx context.Context,
	roomId int,
	pagination domain.Pagination) ([]domain.Seat, *domain.Metadata, error) {

	args := m.Called(ctx, roomId, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Seat), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockSeatService) GetStatus(ctx context.Context, seatId int) (domain.SeatStatus, error) {
	args := m.Called(ctx, seatId)
	return args.Get(0).(domain.SeatStatus), args.Error(1)
}

func (m *MockSeatService) SetStatus(ctx context.Context, seatId int, status domain.SeatStatus) error {
	args := m.Called(ctx, seatId, status)
	return args.Error(0)
}

func (m *MockSeatService) Occupy(ctx context.Context, seatId int) (bool, error) {
	args := m.Called(ctx, seatId)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatService) Release(ctx context.Context, seatId int) (bool, error) {
	args := m.Called(ctx, seatId)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatService) Reserve(ctx context.Context, seatId int) (bool, error) {
	args := m.Called(ctx, seatId)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatService) CancelReservationHold(ctx context.Context, seatId int) (bool, error) {
	args := m.Called(ctx, seatId)
	return args.Bool(0), args.Error(1)
}

type MockStatisticsService struct {
	mock.Mock
	domain.StatisticsService
}

func (m *MockStatisticsService) statistics(args mock.Arguments) (domain.Statistics, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Statistics), args.Error(1)
}

func (m *MockStatisticsService) UserStatistics(ctx context.Context, userId int) (domain.Statistics, error) {
	return m.statistics(m.Called(ctx, userId))
}

func (m *MockStatisticsService) SeatStatistics(
	ctx context.Context,
	seatId int,
	window time.Duration) (domain.Statistics, error) {

	return m.statistics(m.Called(ctx, seatId, window))
}

func (m *MockStatisticsService) SystemStatistics(ctx context.Context) (domain.Statistics, error) {
	return m.statistics(m.Called(ctx))
}

func (m *MockStatisticsService) Revenue(ctx context.Context, from, to time.Time) (domain.Statistics, error) {
	return m.statistics(m.Called(ctx, from, to))
}
