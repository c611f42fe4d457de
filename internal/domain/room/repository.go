package room

import (
	"context"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/transaction"
)

// Repository は客室リポジトリのインターフェース
type Repository interface {
	// Create は新しい客室を作成する
	Create(ctx context.Context, r *Room) error

	// GetByID はIDから客室を取得する
	GetByID(ctx context.Context, id string) (*Room, error)

	// GetByIDForUpdate はIDから客室を行ロック付きで取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Room, error)

	// List は客室一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Room, error)

	// Update は客室を更新する
	Update(ctx context.Context, r *Room) error

	// UpdateStatus は客室の状態のみを更新する（トランザクション必須）
	// 予約のライフサイクル副作用から呼ばれる
	UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status Status) error

	// CountByStatus は状態ごとの客室数を取得する
	CountByStatus(ctx context.Context, status Status) (int, error)

	// Delete は客室を削除する
	Delete(ctx context.Context, id string) error
}
