package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/booking"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/identity"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/transaction"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/infrastructure/mq"
	redisinfra "github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/infrastructure/redis"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/pkg/logger"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/pkg/metrics"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	createLockTTL        = 10 * time.Second
	createLockRetries    = 3
	createLockRetryDelay = 100 * time.Millisecond
)

type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	roomRepo    room.Repository
	lockManager *redisinfra.LockManager
	publisher   *mq.Publisher
	metrics     *metrics.Metrics

	// now はテストで差し替え可能な時計
	now func() time.Time
}

// NewBookingService は予約サービスを作成する
// lockManager / publisher / m は nil 可（該当機能が無効化される）
func NewBookingService(
	txm transaction.Manager,
	br booking.Repository,
	rr room.Repository,
	lm *redisinfra.LockManager,
	pub *mq.Publisher,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		txManager:   txm,
		bookingRepo: br,
		roomRepo:    rr,
		lockManager: lm,
		publisher:   pub,
		metrics:     m,
		now:         time.Now,
	}
}

type CreateBookingInput struct {
	UserID   string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

// CreateBooking は空室判定を経て予約を保留状態で作成する
// 空室判定はトランザクション内で行ロック下に再実行され、
// チェック外のレースはDBの排他制約が最終的に防ぐ
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	b := booking.NewBooking(input.UserID, input.RoomID, input.CheckIn, input.CheckOut)
	if err := b.Validate(startOfDay(s.now())); err != nil {
		return nil, err
	}

	// 事前チェック（トランザクション外）: 存在しない客室・受付不可の客室を弾く
	rm, err := s.roomRepo.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.Status.IsAllocatable() {
		s.countBooking("conflict")
		return nil, &booking.RoomNotAvailableError{RoomID: input.RoomID, CheckIn: input.CheckIn, CheckOut: input.CheckOut}
	}

	// 分散ロックで同一客室への同時作成を間引く
	// ロックなしでも正当性はトランザクション内の再検査と排他制約が保証する
	if s.lockManager != nil {
		start := time.Now()
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, "room:"+input.RoomID, createLockTTL, createLockRetries, createLockRetryDelay)
		s.observeLock("acquire", start, err)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countBooking("lock_failed")
				return nil, &booking.RoomNotAvailableError{RoomID: input.RoomID, CheckIn: input.CheckIn, CheckOut: input.CheckOut}
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer func() {
			start := time.Now()
			err := lock.Release(ctx)
			s.observeLock("release", start, err)
		}()
	}

	err = transaction.RunInTx(ctx, s.txManager, func(tx transaction.Tx) error {
		// 空室判定をトランザクション内でやり直す
		// 行ロックで同一客室への同時作成と直列化される
		rm, err := s.roomRepo.GetByIDForUpdate(ctx, tx, input.RoomID)
		if err != nil {
			return err
		}
		if !rm.Status.IsAllocatable() {
			return &booking.RoomNotAvailableError{RoomID: input.RoomID, CheckIn: input.CheckIn, CheckOut: input.CheckOut}
		}
		overlapping, err := s.bookingRepo.GetOverlapping(ctx, tx, input.RoomID, b.CheckIn, b.CheckOut)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return &booking.RoomNotAvailableError{RoomID: input.RoomID, CheckIn: input.CheckIn, CheckOut: input.CheckOut}
		}
		return s.bookingRepo.Create(ctx, tx, b)
	})
	if err != nil {
		if errors.Is(err, booking.ErrRoomNotAvailable) {
			s.countBooking("conflict")
		} else {
			s.countBooking("error")
		}
		return nil, err
	}

	s.countBooking("success")
	s.publishEvent(ctx, mq.EventBookingCreated, b)
	return b, nil
}

// IsRoomAvailable は指定客室が期間 [checkIn, checkOut) に予約可能かを返す
// 読み取り専用の経路であり、作成時はトランザクション内で同じ判定をやり直す
func (s *BookingService) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if !checkOut.After(checkIn) || checkIn.Before(startOfDay(s.now())) {
		return false, booking.ErrInvalidDateRange
	}
	rm, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !rm.Status.IsAllocatable() {
		return false, nil
	}
	// キャンセル済み・チェックアウト済みの予約は同一期間でも空室判定を妨げない
	overlapping, err := s.bookingRepo.GetOverlapping(ctx, nil, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// GetBooking は予約を取得する（所有者または管理者のみ）
func (s *BookingService) GetBooking(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !b.IsOwnedBy(actor.UserID) {
		return nil, &booking.UnauthorizedAccessError{UserID: actor.UserID, BookingID: id}
	}
	return b, nil
}

type ListBookingsInput struct {
	UserID string
	RoomID string
	Status booking.Status
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ListBookings は予約一覧を取得する
// ゲストは自身の予約のみ、管理者は任意のユーザーで絞り込める
func (s *BookingService) ListBookings(ctx context.Context, input ListBookingsInput, actor identity.Actor) ([]*booking.Booking, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, booking.ErrInvalidStatus
	}
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}
	if input.Limit > maxListLimit {
		input.Limit = maxListLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	filter := booking.ListFilter{
		UserID: input.UserID,
		RoomID: input.RoomID,
		Status: input.Status,
		From:   input.From,
		To:     input.To,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if !actor.IsAdmin() {
		filter.UserID = actor.UserID
	}
	return s.bookingRepo.List(ctx, filter)
}

// ConfirmBooking は保留中の予約を確定する（管理者のみ）
func (s *BookingService) ConfirmBooking(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error) {
	if !actor.IsAdmin() {
		return nil, &booking.UnauthorizedAccessError{UserID: actor.UserID, BookingID: id}
	}
	return s.applyTransition(ctx, id, "confirm", nil, func(b *booking.Booking) error {
		return b.Confirm()
	})
}

// CheckIn はチェックインを行い客室を滞在中にする（管理者のみ）
func (s *BookingService) CheckIn(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error) {
	if !actor.IsAdmin() {
		return nil, &booking.UnauthorizedAccessError{UserID: actor.UserID, BookingID: id}
	}
	return s.applyTransition(ctx, id, "check_in", nil, func(b *booking.Booking) error {
		return b.CheckInBooking()
	})
}

// CheckOut はチェックアウトを行い客室を解放する（管理者のみ）
func (s *BookingService) CheckOut(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error) {
	if !actor.IsAdmin() {
		return nil, &booking.UnauthorizedAccessError{UserID: actor.UserID, BookingID: id}
	}
	return s.applyTransition(ctx, id, "check_out", nil, func(b *booking.Booking) error {
		return b.CheckOutBooking()
	})
}

// CancelBooking は予約をキャンセルする（所有者または管理者）
// 滞在中からのキャンセルでは客室を解放する
func (s *BookingService) CancelBooking(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error) {
	authorize := func(b *booking.Booking) error {
		if !actor.IsAdmin() && !b.IsOwnedBy(actor.UserID) {
			return &booking.UnauthorizedAccessError{UserID: actor.UserID, BookingID: id}
		}
		return nil
	}
	return s.applyTransition(ctx, id, "cancel", authorize, func(b *booking.Booking) error {
		return b.Cancel()
	})
}

// SweepNoShowBookings はチェックイン日を過ぎても保留中のままの予約をキャンセルする
// ワーカーから定期的に呼ばれる
func (s *BookingService) SweepNoShowBookings(ctx context.Context) (int, error) {
	stale, err := s.bookingRepo.GetPendingBefore(ctx, startOfDay(s.now()))
	if err != nil {
		return 0, err
	}
	cancelled := 0
	for _, b := range stale {
		if _, err := s.applyTransition(ctx, b.ID, "cancel", nil, func(b *booking.Booking) error {
			return b.Cancel()
		}); err != nil {
			// 並行する遷移に負けた予約はスキップして続行
			logger.Warn("ノーショー予約のキャンセルに失敗",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// applyTransition は予約を行ロック付きで読み直し、遷移と客室副作用を
// 単一トランザクションで適用する
// 遷移の妥当性は必ず読み直した最新のステータスに対して検証される
func (s *BookingService) applyTransition(
	ctx context.Context,
	id string,
	name string,
	authorize func(*booking.Booking) error,
	apply func(*booking.Booking) error,
) (*booking.Booking, error) {
	var (
		result   *booking.Booking
		from     booking.Status
		freed    bool
		occupied bool
	)
	err := transaction.RunInTx(ctx, s.txManager, func(tx transaction.Tx) error {
		b, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(b); err != nil {
				return err
			}
		}
		from = b.Status
		if err := apply(b); err != nil {
			return err
		}
		if booking.OccupiesRoom(b.Status) {
			if err := s.roomRepo.UpdateStatus(ctx, tx, b.RoomID, room.StatusOccupied); err != nil {
				return err
			}
			occupied = true
		}
		if booking.FreesRoom(from, b.Status) {
			if err := s.roomRepo.UpdateStatus(ctx, tx, b.RoomID, room.StatusAvailable); err != nil {
				return err
			}
			freed = true
		}
		if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		s.countTransition(name, transitionErrorLabel(err))
		return nil, err
	}

	s.countTransition(name, "success")
	if s.metrics != nil {
		if occupied {
			s.metrics.OccupiedRooms.Inc()
		}
		if freed {
			s.metrics.OccupiedRooms.Dec()
		}
	}
	s.publishEvent(ctx, eventTypeFor(result.Status), result)
	return result, nil
}

func transitionErrorLabel(err error) string {
	switch {
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		return "invalid"
	case errors.Is(err, booking.ErrUnauthorizedAccess):
		return "unauthorized"
	default:
		return "error"
	}
}

func eventTypeFor(status booking.Status) mq.EventType {
	switch status {
	case booking.StatusConfirmed:
		return mq.EventBookingConfirmed
	case booking.StatusCheckedIn:
		return mq.EventBookingCheckedIn
	case booking.StatusCheckedOut:
		return mq.EventBookingCheckedOut
	case booking.StatusCancelled:
		return mq.EventBookingCancelled
	default:
		return mq.EventBookingCreated
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType mq.EventType, b *booking.Booking) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, mq.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		Status:     string(b.Status),
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		OccurredAt: s.now(),
	})
	if err != nil {
		// イベントは通知用途のため、発行失敗で予約処理は失敗させない
		logger.Warn("予約イベントの発行に失敗",
			zap.String("booking_id", b.ID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

func (s *BookingService) countBooking(status string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(status).Inc()
	}
}

func (s *BookingService) countTransition(name, status string) {
	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(name, status).Inc()
	}
}

func (s *BookingService) observeLock(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.DistributedLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// startOfDay は t と同じ場所におけるその日の0時を返す
// チェックイン日の「過去」判定は日付単位で行う
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
