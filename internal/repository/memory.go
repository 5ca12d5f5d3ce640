package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/metinatakli/study-room-reservation-system/internal/domain"
)

// MemoryStore keeps rooms, seats, users and reservations in process memory.
// It enforces the same rules as the Postgres schema: unique reservation
// codes, optimistic versions and no two overlapping ACTIVE reservations on a
// seat. Values are copied in and out, so callers never share state with it.
type MemoryStore struct {
	mu           sync.RWMutex
	rooms        map[int]domain.Room
	seats        map[int]domain.Seat
	users        map[int]domain.User
	reservations map[int]domain.Reservation
	codes        map[string]int
	lastId       map[string]int
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:        make(map[int]domain.Room),
		seats:        make(map[int]domain.Seat),
		users:        make(map[int]domain.User),
		reservations: make(map[int]domain.Reservation),
		codes:        make(map[string]int),
		lastId:       make(map[string]int),
		now:          time.Now,
	}
}

func (s *MemoryStore) AddRoom(room domain.Room) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	room.ID = s.assignId("rooms", room.ID)
	if room.Status == "" {
		room.Status = domain.RoomStatusAvailable
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = s.now()
	}

	s.rooms[room.ID] = room

	return room
}

func (s *MemoryStore) AddSeat(seat domain.Seat) domain.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat.ID = s.assignId("seats", seat.ID)
	if seat.Type == "" {
		seat.Type = domain.SeatTypeNormal
	}
	if seat.Status == "" {
		seat.Status = domain.SeatStatusAvailable
	}
	if seat.CreatedAt.IsZero() {
		seat.CreatedAt = s.now()
		seat.UpdatedAt = seat.CreatedAt
	}

	s.seats[seat.ID] = seat

	return seat
}

func (s *MemoryStore) AddUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.assignId("users", user.ID)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}

	s.users[user.ID] = user

	return user
}

// assignId keeps explicit ids and hands out increasing ones otherwise.
func (s *MemoryStore) assignId(table string, id int) int {
	if id == 0 {
		id = s.lastId[table] + 1
	}

	s.lastId[table] = max(s.lastId[table], id)

	return id
}

func (s *MemoryStore) Reservations() *MemoryReservationRepository {
	return &MemoryReservationRepository{store: s}
}

func (s *MemoryStore) Seats() *MemorySeatRepository {
	return &MemorySeatRepository{store: s}
}

func (s *MemoryStore) Rooms() *MemoryRoomRepository {
	return &MemoryRoomRepository{store: s}
}

func (s *MemoryStore) Users() *MemoryUserRepository {
	return &MemoryUserRepository{store: s}
}

type MemoryReservationRepository struct {
	store *MemoryStore
}

func (m *MemoryReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seats[r.SeatID]; !ok {
		return domain.ErrSeatNotFound
	}

	if _, ok := s.users[r.UserID]; !ok {
		return domain.ErrUserNotFound
	}

	if _, ok := s.codes[r.Code]; ok {
		return domain.ErrDuplicateCode
	}

	if r.Status == domain.ReservationStatusActive && s.overlapsActive(r, 0) {
		return domain.ErrTimeConflict
	}

	now := s.now()
	r.ID = s.assignId("reservations", 0)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	r.Version = 1

	s.reservations[r.ID] = cloneReservation(*r)
	s.codes[r.Code] = r.ID

	return nil
}

func (m *MemoryReservationRepository) Update(ctx context.Context, r *domain.Reservation) error {
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reservations[r.ID]
	if !ok || stored.Version != r.Version {
		return domain.ErrEditConflict
	}

	if r.Status == domain.ReservationStatusActive && s.overlapsActive(r, r.ID) {
		return domain.ErrTimeConflict
	}

	r.Code = stored.Code
	r.CreatedAt = stored.CreatedAt
	r.Version++

	s.reservations[r.ID] = cloneReservation(*r)

	return nil
}

func (m *MemoryReservationRepository) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	clone := cloneReservation(r)

	return &clone, nil
}

func (m *MemoryReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	m.store.mu.RLock()
	id, ok := m.store.codes[code]
	m.store.mu.RUnlock()

	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return m.GetById(ctx, id)
}

func (m *MemoryReservationRepository) FindOverlapping(
	ctx context.Context,
	seatId int,
	start, end time.Time,
	excludeId int) ([]domain.Reservation, error) {

	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservations := make([]domain.Reservation, 0)

	for _, r := range s.reservations {
		if r.SeatID != seatId || r.ID == excludeId || r.Status != domain.ReservationStatusActive {
			continue
		}

		if r.Overlaps(start, end) {
			reservations = append(reservations, cloneReservation(r))
		}
	}

	slices.SortFunc(reservations, func(a, b domain.Reservation) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return reservations, nil
}

func (m *MemoryReservationRepository) Find(
	ctx context.Context,
	filter domain.ReservationFilter,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	s := m.store
	s.mu.RLock()
	matched := make([]domain.Reservation, 0)
	for _, r := range s.reservations {
		if filter.Matches(&r) {
			matched = append(matched, cloneReservation(r))
		}
	}
	s.mu.RUnlock()

	compare := reservationComparator(pagination.SortColumn())
	desc := pagination.SortDirection() == "DESC"

	slices.SortFunc(matched, func(a, b domain.Reservation) int {
		c := compare(a, b)
		if desc {
			c = -c
		}

		return cmp.Or(c, cmp.Compare(a.ID, b.ID))
	})

	metadata := domain.NewMetadata(len(matched), pagination.Page, pagination.PageSize)

	from := max(0, min(pagination.Offset(), len(matched)))
	to := min(from+pagination.Limit(), len(matched))

	return matched[from:to], metadata, nil
}

func reservationComparator(column string) func(a, b domain.Reservation) int {
	switch column {
	case "start_time":
		return func(a, b domain.Reservation) int { return a.StartTime.Compare(b.StartTime) }
	case "end_time":
		return func(a, b domain.Reservation) int { return a.EndTime.Compare(b.EndTime) }
	case "created_at":
		return func(a, b domain.Reservation) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b domain.Reservation) int { return cmp.Compare(a.ID, b.ID) }
	}
}

// overlapsActive expects s.mu to be held.
func (s *MemoryStore) overlapsActive(r *domain.Reservation, excludeId int) bool {
	for _, other := range s.reservations {
		if other.ID == excludeId || other.SeatID != r.SeatID || other.Status != domain.ReservationStatusActive {
			continue
		}

		if other.Overlaps(r.StartTime, r.EndTime) {
			return true
		}
	}

	return false
}

func cloneReservation(r domain.Reservation) domain.Reservation {
	r.PaidAt = cloneTime(r.PaidAt)
	r.CheckInTime = cloneTime(r.CheckInTime)
	r.CheckOutTime = cloneTime(r.CheckOutTime)

	return r
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}

type MemorySeatRepository struct {
	store *MemoryStore
}

func (m *MemorySeatRepository) GetById(ctx context.Context, id int) (*domain.Seat, error) {
	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seat, ok := s.seats[id]
	if !ok {
		return nil, domain.ErrSeatNotFound
	}

	return &seat, nil
}

func (m *MemorySeatRepository) GetByRoomId(
	ctx context.Context,
	roomId int,
	pagination domain.Pagination) ([]domain.Seat, *domain.Metadata, error) {

	s := m.store
	s.mu.RLock()
	seats := make([]domain.Seat, 0)
	for _, seat := range s.seats {
		if seat.RoomID == roomId {
			seats = append(seats, seat)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(seats, func(a, b domain.Seat) int {
		return cmp.Or(cmp.Compare(a.SeatNumber, b.SeatNumber), cmp.Compare(a.ID, b.ID))
	})

	metadata := domain.NewMetadata(len(seats), pagination.Page, pagination.PageSize)

	from := max(0, min(pagination.Offset(), len(seats)))
	to := min(from+pagination.Limit(), len(seats))

	return seats[from:to], metadata, nil
}

func (m *MemorySeatRepository) UpdateStatus(
	ctx context.Context,
	id int,
	to domain.SeatStatus,
	from ...domain.SeatStatus) (bool, error) {

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seats[id]
	if !ok {
		return false, domain.ErrSeatNotFound
	}

	if len(from) > 0 && !slices.Contains(from, seat.Status) {
		return false, nil
	}

	seat.Status = to
	seat.UpdatedAt = s.now()
	s.seats[id] = seat

	return true, nil
}

type MemoryRoomRepository struct {
	store *MemoryStore
}

func (m *MemoryRoomRepository) GetById(ctx context.Context, id int) (*domain.Room, error) {
	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return &room, nil
}

type MemoryUserRepository struct {
	store *MemoryStore
}

func (m *MemoryUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return &user, nil
}
