package booking

import (
	"errors"
	"fmt"
	"time"
)

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound         = errors.New("予約が見つかりません")
	ErrInvalidDateRange        = errors.New("宿泊期間が不正です")
	ErrUserIDRequired          = errors.New("ユーザーIDは必須です")
	ErrRoomIDRequired          = errors.New("客室IDは必須です")
	ErrInvalidStatus           = errors.New("予約ステータスが不正です")
	ErrRoomNotAvailable        = errors.New("指定期間に客室を予約できません")
	ErrInvalidStatusTransition = errors.New("不正なステータス遷移です")
	ErrUnauthorizedAccess      = errors.New("この予約を操作する権限がありません")
)

// InvalidTransitionError は遷移表にない遷移の試行を表す
// 診断用に遷移元・遷移先の両方を保持する
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("不正なステータス遷移です: %s -> %s", e.From, e.To)
}

// Is は errors.Is(err, ErrInvalidStatusTransition) での照合を可能にする
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// RoomNotAvailableError は空室判定による予約拒否を表す
type RoomNotAvailableError struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *RoomNotAvailableError) Error() string {
	return fmt.Sprintf("指定期間に客室を予約できません: room=%s %s〜%s",
		e.RoomID, e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
}

func (e *RoomNotAvailableError) Is(target error) bool {
	return target == ErrRoomNotAvailable
}

// UnauthorizedAccessError は権限のない予約操作の試行を表す
type UnauthorizedAccessError struct {
	UserID    string
	BookingID string
}

func (e *UnauthorizedAccessError) Error() string {
	return fmt.Sprintf("この予約を操作する権限がありません: user=%s booking=%s", e.UserID, e.BookingID)
}

func (e *UnauthorizedAccessError) Is(target error) bool {
	return target == ErrUnauthorizedAccess
}
