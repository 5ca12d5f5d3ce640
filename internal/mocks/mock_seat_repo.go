package mocks

import (
	"context"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

type MockSeatRepo struct {
	GetByIdFunc      func(ctx context.Context, id int) (*domain.Seat, error)
	GetByRoomIdFunc  func(ctx context.Context, roomId int, pagination domain.Pagination) ([]domain.Seat, *domain.Metadata, error)
	UpdateStatusFunc func(ctx context.Context, id int, to domain.SeatStatus, from ...domain.SeatStatus) (bool, error)
}

func (m *MockSeatRepo) GetById(ctx context.Context, id int) (*domain.Seat, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockSeatRepo) GetByRoomId(
	ctx context.Context,
	roomId int,
	pagination domain.Pagination) ([]domain.Seat, *domain.Metadata, error) {

	return m.GetByRoomIdFunc(ctx, roomId, pagination)
}

func (m *MockSeatRepo) UpdateStatus(
	ctx context.Context,
	id int,
	to domain.SeatStatus,
	from ...domain.SeatStatus) (bool, error) {

	return m.UpdateStatusFunc(ctx, id, to, from...)
}
