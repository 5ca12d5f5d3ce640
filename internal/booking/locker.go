package booking

import (
	"context"
	"sync"
)

// SeatLocker serializes work on a single seat. Locks on different seats never
// block each other. The returned function releases the lock and must be
// called exactly once.
type SeatLocker interface {
	Lock(ctx context.Context, seatId int) (func(), error)
}

// LocalSeatLocker keeps one lock per seat in process memory. Entries are
// dropped once nobody holds or waits for them.
type LocalSeatLocker struct {
	mu    sync.Mutex
	seats map[int]*seatLock
}

type seatLock struct {
	sem  chan struct{}
	refs int
}

func NewLocalSeatLocker() *LocalSeatLocker {
	return &LocalSeatLocker{
		seats: make(map[int]*seatLock),
	}
}

func (l *LocalSeatLocker) Lock(ctx context.Context, seatId int) (func(), error) {
	l.mu.Lock()
	sl, ok := l.seats[seatId]
	if !ok {
		sl = &seatLock{sem: make(chan struct{}, 1)}
		l.seats[seatId] = sl
	}
	sl.refs++
	l.mu.Unlock()

	select {
	case sl.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(seatId, sl)
		return nil, ctx.Err()
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-sl.sem
			l.unref(seatId, sl)
		})
	}, nil
}

func (l *LocalSeatLocker) unref(seatId int, sl *seatLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sl.refs--
	if sl.refs == 0 {
		delete(l.seats, seatId)
	}
}
