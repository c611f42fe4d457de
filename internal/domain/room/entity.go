package room

import "time"

// Status は客室の基底状態を表す
// available のみが新規予約を受け付けられる状態
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// IsValid はステータスが定義済みの値かを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// IsAllocatable は新規予約を受け付けられる状態かを返す
func (s Status) IsAllocatable() bool {
	return s == StatusAvailable
}

// Room は客室エンティティを表す
type Room struct {
	ID            string
	RoomNumber    string
	RoomType      string
	Capacity      int
	PricePerNight int
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRoom は新しい客室を予約受付可能な状態で作成する
func NewRoom(roomNumber, roomType string, capacity, pricePerNight int) *Room {
	now := time.Now()
	return &Room{
		RoomNumber:    roomNumber,
		RoomType:      roomType,
		Capacity:      capacity,
		PricePerNight: pricePerNight,
		Status:        StatusAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate は客室の検証を行う
func (r *Room) Validate() error {
	if r.RoomNumber == "" {
		return ErrRoomNumberRequired
	}
	if r.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if r.PricePerNight < 0 {
		return ErrInvalidPrice
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// SetOccupied は滞在中フラグに応じて客室の状態を切り替える
// チェックイン・チェックアウト・滞在中キャンセルの副作用としてのみ使う
func (r *Room) SetOccupied(occupied bool) {
	if occupied {
		r.Status = StatusOccupied
	} else {
		r.Status = StatusAvailable
	}
	r.UpdatedAt = time.Now()
}
