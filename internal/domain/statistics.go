package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Statistics is a flat key to value view. Counts are whole numbers, amounts
// carry two decimal places and ratios four.
type Statistics map[string]decimal.Decimal

type StatisticsService interface {
	UserStatistics(ctx context.Context, userId int) (Statistics, error)
	SeatStatistics(ctx context.Context, seatId int, window time.Duration) (Statistics, error)
	SystemStatistics(ctx context.Context) (Statistics, error)
	Revenue(ctx context.Context, from, to time.Time) (Statistics, error)
}
