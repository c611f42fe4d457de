package booking

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// IsValid はステータスが定義済みの値かを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// IsLive は空室判定の対象となる状態（保留・確定・滞在中）かを返す
func (s Status) IsLive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// IsTerminal は遷移先を持たない終端状態かを返す
func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// LiveStatuses は空室判定で競合とみなす状態の一覧を返す
func LiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCheckedIn}
}

// Booking は予約エンティティを表す
type Booking struct {
	ID        string
	UserID    string
	RoomID    string
	CheckIn   time.Time
	CheckOut  time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking は新しい予約を保留状態で作成する
func NewBooking(userID, roomID string, checkIn, checkOut time.Time) *Booking {
	now := time.Now()
	return &Booking{
		UserID:    userID,
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は予約の検証を行う
// today はチェックイン日の過去判定に使う基準日（その日の0時）
func (b *Booking) Validate(today time.Time) error {
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if b.RoomID == "" {
		return ErrRoomIDRequired
	}
	if !b.CheckOut.After(b.CheckIn) {
		return ErrInvalidDateRange
	}
	if b.CheckIn.Before(today) {
		return ErrInvalidDateRange
	}
	return nil
}

// IsOwnedBy は予約の所有者かを返す
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// Confirm は予約を確定する
func (b *Booking) Confirm() error {
	return b.transitionTo(StatusConfirmed)
}

// CheckInBooking はチェックインを行う
func (b *Booking) CheckInBooking() error {
	return b.transitionTo(StatusCheckedIn)
}

// CheckOutBooking はチェックアウトを行う
func (b *Booking) CheckOutBooking() error {
	return b.transitionTo(StatusCheckedOut)
}

// Cancel は予約をキャンセルする
func (b *Booking) Cancel() error {
	return b.transitionTo(StatusCancelled)
}

func (b *Booking) transitionTo(to Status) error {
	if !CanTransition(b.Status, to) {
		return &InvalidTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return nil
}
