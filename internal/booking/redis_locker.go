package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultSeatLockTTL       = 10 * time.Second
	defaultLockRetryInterval = 20 * time.Millisecond
	seatLockReleaseTimeout   = 2 * time.Second
)

// Deletes the lock only while it still carries the caller's token, so an
// expired lock taken over by another instance is left alone.
var releaseSeatLockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end

	return 0
`)

// RedisSeatLocker shares seat locks between every instance pointed at the
// same Redis. The TTL bounds how long a crashed holder can keep a seat
// locked and must comfortably exceed a single lifecycle operation.
type RedisSeatLocker struct {
	client        redis.UniversalClient
	logger        *slog.Logger
	ttl           time.Duration
	retryInterval time.Duration
	newToken      func() string
}

func NewRedisSeatLocker(client redis.UniversalClient, logger *slog.Logger, ttl time.Duration) *RedisSeatLocker {
	if ttl <= 0 {
		ttl = DefaultSeatLockTTL
	}

	return &RedisSeatLocker{
		client:        client,
		logger:        logger,
		ttl:           ttl,
		retryInterval: defaultLockRetryInterval,
		newToken:      uuid.NewString,
	}
}

func (l *RedisSeatLocker) Lock(ctx context.Context, seatId int) (func(), error) {
	key := seatLockKey(seatId)
	token := l.newToken()

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock for seat %d: %w", seatId, err)
		}

		if acquired {
			break
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), seatLockReleaseTimeout)
		defer cancel()

		err := releaseSeatLockScript.Run(ctx, l.client, []string{key}, token).Err()
		if err != nil {
			l.logger.Error("failed to release seat lock", "seat_id", seatId, "error", err)
		}
	}, nil
}

func seatLockKey(seatId int) string {
	return fmt.Sprintf("seat_lock:%d", seatId)
}
