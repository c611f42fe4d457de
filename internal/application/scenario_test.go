package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/booking"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/identity"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/transaction"
)

// === インメモリ実装 ===
// 行ロックの代わりにトランザクション全体を単一ミューテックスで直列化し、
// 「検査と作成が同一トランザクションで原子的に行われる」性質を再現する

type fakeTx struct {
	release func()
	once    sync.Once
}

func (t *fakeTx) Commit() error {
	t.once.Do(t.release)
	return nil
}

func (t *fakeTx) Rollback() error {
	t.once.Do(t.release)
	return nil
}

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	m.mu.Lock()
	return &fakeTx{release: m.mu.Unlock}, nil
}

type fakeStore struct {
	mu       sync.Mutex
	bookings map[string]*booking.Booking
	rooms    map[string]*room.Room
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[string]*booking.Booking),
		rooms:    make(map[string]*room.Room),
	}
}

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b.ID = uuid.NewString()
	clone := *b
	r.store.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBookingRepo) List(ctx context.Context, filter booking.ListFilter) ([]*booking.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*booking.Booking
	for _, b := range r.store.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		clone := *b
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeBookingRepo) GetOverlapping(ctx context.Context, tx transaction.Tx, roomID string, checkIn, checkOut time.Time) ([]*booking.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*booking.Booking
	for _, b := range r.store.bookings {
		if b.RoomID != roomID || !b.Status.IsLive() {
			continue
		}
		if b.OverlapsRange(checkIn, checkOut) {
			clone := *b
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bookings[b.ID]; !ok {
		return booking.ErrBookingNotFound
	}
	clone := *b
	r.store.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetPendingBefore(ctx context.Context, before time.Time) ([]*booking.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*booking.Booking
	for _, b := range r.store.bookings {
		if b.Status == booking.StatusPending && b.CheckIn.Before(before) {
			clone := *b
			result = append(result, &clone)
		}
	}
	return result, nil
}

type fakeRoomRepo struct {
	store *fakeStore
}

func (r *fakeRoomRepo) Create(ctx context.Context, rm *room.Room) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rm.ID = uuid.NewString()
	clone := *rm
	r.store.rooms[rm.ID] = &clone
	return nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id string) (*room.Room, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rm, ok := r.store.rooms[id]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	clone := *rm
	return &clone, nil
}

func (r *fakeRoomRepo) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*room.Room, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRoomRepo) List(ctx context.Context, limit, offset int) ([]*room.Room, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*room.Room
	for _, rm := range r.store.rooms {
		clone := *rm
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, rm *room.Room) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.rooms[rm.ID]; !ok {
		return room.ErrRoomNotFound
	}
	clone := *rm
	r.store.rooms[rm.ID] = &clone
	return nil
}

func (r *fakeRoomRepo) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status room.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rm, ok := r.store.rooms[id]
	if !ok {
		return room.ErrRoomNotFound
	}
	rm.Status = status
	return nil
}

func (r *fakeRoomRepo) CountByStatus(ctx context.Context, status room.Status) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, rm := range r.store.rooms {
		if rm.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.rooms[id]; !ok {
		return room.ErrRoomNotFound
	}
	delete(r.store.rooms, id)
	return nil
}

func newScenarioService(t *testing.T) (*BookingService, *fakeRoomRepo) {
	t.Helper()
	store := newFakeStore()
	roomRepo := &fakeRoomRepo{store: store}
	bookingRepo := &fakeBookingRepo{store: store}
	svc := NewBookingService(&fakeTxManager{}, bookingRepo, roomRepo, nil, nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc, roomRepo
}

// === シナリオテスト ===

// 予約の作成からチェックアウトまでの一連の流れを通しで検証する
func TestBookingLifecycleScenario(t *testing.T) {
	svc, roomRepo := newScenarioService(t)
	ctx := context.Background()

	admin := identity.Actor{UserID: "admin-1", Role: identity.RoleAdmin}
	guest := identity.Actor{UserID: "guest-1", Role: identity.RoleGuest}

	rm := room.NewRoom("301", "double", 2, 15000)
	require.NoError(t, roomRepo.Create(ctx, rm))

	// ゲストが予約を作成（保留で開始）
	b, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: guest.UserID, RoomID: rm.ID,
		CheckIn: testDay(10), CheckOut: testDay(13),
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, b.Status)

	// 同一期間の二重予約は拒否される
	_, err = svc.CreateBooking(ctx, CreateBookingInput{
		UserID: "guest-2", RoomID: rm.ID,
		CheckIn: testDay(11), CheckOut: testDay(14),
	})
	assert.ErrorIs(t, err, booking.ErrRoomNotAvailable)

	// 境界が接するだけの予約（前の予約のチェックアウト日に開始）は通る
	adjacent, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: "guest-2", RoomID: rm.ID,
		CheckIn: testDay(13), CheckOut: testDay(15),
	})
	require.NoError(t, err)

	// 管理者が確定・チェックイン
	_, err = svc.ConfirmBooking(ctx, b.ID, admin)
	require.NoError(t, err)
	checked, err := svc.CheckIn(ctx, b.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckedIn, checked.Status)

	// チェックインで客室は滞在中になる
	got, err := roomRepo.GetByID(ctx, rm.ID)
	require.NoError(t, err)
	assert.Equal(t, room.StatusOccupied, got.Status)

	// チェックアウトで客室が解放される
	out, err := svc.CheckOut(ctx, b.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckedOut, out.Status)
	got, err = roomRepo.GetByID(ctx, rm.ID)
	require.NoError(t, err)
	assert.Equal(t, room.StatusAvailable, got.Status)

	// 終端状態からのキャンセルは不正
	_, err = svc.CancelBooking(ctx, b.ID, admin)
	assert.ErrorIs(t, err, booking.ErrInvalidStatusTransition)

	// チェックアウト済みの期間には再び予約できる
	_, err = svc.CreateBooking(ctx, CreateBookingInput{
		UserID: "guest-3", RoomID: rm.ID,
		CheckIn: testDay(10), CheckOut: testDay(13),
	})
	require.NoError(t, err)

	// 隣接予約はキャンセルでき、その期間も解放される
	_, err = svc.CancelBooking(ctx, adjacent.ID, identity.Actor{UserID: "guest-2", Role: identity.RoleGuest})
	require.NoError(t, err)
	ok, err := svc.IsRoomAvailable(ctx, rm.ID, testDay(13), testDay(15))
	require.NoError(t, err)
	assert.True(t, ok)
}

// 同一客室・同一期間への同時作成で二重予約が起きないこと
func TestConcurrentCreateBooking_NoDoubleAdmission(t *testing.T) {
	svc, roomRepo := newScenarioService(t)
	ctx := context.Background()

	rm := room.NewRoom("401", "single", 1, 9000)
	require.NoError(t, roomRepo.Create(ctx, rm))

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, CreateBookingInput{
				UserID: "guest-1", RoomID: rm.ID,
				CheckIn: testDay(10), CheckOut: testDay(12),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, booking.ErrRoomNotAvailable):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

// ノーショー掃き出しがチェックイン日超過の保留予約だけをキャンセルすること
func TestSweepNoShowBookings_Scenario(t *testing.T) {
	svc, roomRepo := newScenarioService(t)
	ctx := context.Background()
	admin := identity.Actor{UserID: "admin-1", Role: identity.RoleAdmin}

	rm1 := room.NewRoom("501", "twin", 2, 11000)
	rm2 := room.NewRoom("502", "twin", 2, 11000)
	require.NoError(t, roomRepo.Create(ctx, rm1))
	require.NoError(t, roomRepo.Create(ctx, rm2))

	stale, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: "guest-1", RoomID: rm1.ID,
		CheckIn: testDay(1), CheckOut: testDay(3),
	})
	require.NoError(t, err)
	future, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID: "guest-2", RoomID: rm2.ID,
		CheckIn: testDay(10), CheckOut: testDay(12),
	})
	require.NoError(t, err)

	// 時計を進めてチェックイン日を過ぎた状態にする
	svc.now = func() time.Time { return testDay(5) }

	cancelled, err := svc.SweepNoShowBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	got, err := svc.GetBooking(ctx, stale.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status)

	got, err = svc.GetBooking(ctx, future.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, got.Status)
}
