package booking

import (
	"context"
	"time"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/transaction"
)

// ListFilter は予約一覧の絞り込み条件
// ゼロ値のフィールドは条件として適用しない
type ListFilter struct {
	UserID string
	RoomID string
	Status Status
	From   *time.Time // CheckIn >= From
	To     *time.Time // CheckOut <= To
	Limit  int
	Offset int
}

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByIDForUpdate はIDから予約を行ロック付きで取得する（トランザクション必須）
	// ステータス遷移の検証は必ずこの読み直した値に対して行う
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Booking, error)

	// List は条件に一致する予約一覧を取得する
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)

	// GetOverlapping は指定客室・期間に重なるライブ状態の予約を取得する
	// tx が nil の場合はトランザクション外で実行する
	GetOverlapping(ctx context.Context, tx transaction.Tx, roomID string, checkIn, checkOut time.Time) ([]*Booking, error)

	// Update は予約のステータスを更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetPendingBefore はチェックイン日が before より前の保留中予約を取得する
	GetPendingBefore(ctx context.Context, before time.Time) ([]*Booking, error)
}
