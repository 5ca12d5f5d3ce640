package mocks

import (
	"context"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

type MockUserRepo struct {
	GetByIdFunc func(ctx context.Context, id int) (*domain.User, error)
}

func (m *MockUserRepo) GetById(ctx context.Context, id int) (*domain.User, error) {
	return m.GetByIdFunc(ctx, id)
}

type MockRoomRepo struct {
	GetByIdFunc func(ctx context.Context, id int) (*domain.Room, error)
}

func (m *MockRoomRepo) GetById(ctx context.Context, id int) (*domain.Room, error) {
	return m.GetByIdFunc(ctx, id)
}
