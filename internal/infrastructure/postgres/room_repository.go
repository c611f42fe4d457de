package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/transaction"
)

const roomColumns = `id, room_number, room_type, capacity, price_per_night, status, created_at, updated_at`

type roomRow struct {
	ID            string    `db:"id"`
	RoomNumber    string    `db:"room_number"`
	RoomType      string    `db:"room_type"`
	Capacity      int       `db:"capacity"`
	PricePerNight int       `db:"price_per_night"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *roomRow) toEntity() *room.Room {
	return &room.Room{
		ID: r.ID, RoomNumber: r.RoomNumber, RoomType: r.RoomType,
		Capacity: r.Capacity, PricePerNight: r.PricePerNight,
		Status:    room.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type RoomRepository struct{ db *sqlx.DB }

func NewRoomRepository(db *sqlx.DB) *RoomRepository { return &RoomRepository{db: db} }

func (r *RoomRepository) ext(tx transaction.Tx) sqlx.ExtContext {
	if tx != nil {
		if sqlxTx := UnwrapTx(tx); sqlxTx != nil {
			return sqlxTx
		}
	}
	return r.db
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	query := `INSERT INTO rooms (room_number, room_type, capacity, price_per_night, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rm.RoomNumber, rm.RoomType, rm.Capacity, rm.PricePerNight, string(rm.Status), rm.CreatedAt, rm.UpdatedAt,
	).Scan(&rm.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return room.ErrRoomNumberTaken
		}
		return fmt.Errorf("客室作成に失敗: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	var row roomRow
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("客室取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RoomRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*room.Room, error) {
	var row roomRow
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, r.ext(tx), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("客室取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RoomRepository) List(ctx context.Context, limit, offset int) ([]*room.Room, error) {
	var rows []roomRow
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY room_number LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("客室一覧取得に失敗: %w", err)
	}
	rooms := make([]*room.Room, len(rows))
	for i := range rows {
		rooms[i] = rows[i].toEntity()
	}
	return rooms, nil
}

func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	query := `UPDATE rooms SET room_number = $1, room_type = $2, capacity = $3, price_per_night = $4, status = $5, updated_at = $6 WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		rm.RoomNumber, rm.RoomType, rm.Capacity, rm.PricePerNight, string(rm.Status), rm.UpdatedAt, rm.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return room.ErrRoomNumberTaken
		}
		return fmt.Errorf("客室更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status room.Status) error {
	query := `UPDATE rooms SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.ext(tx).ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("客室状態の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) CountByStatus(ctx context.Context, status room.Status) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rooms WHERE status = $1`, string(status))
	return count, err
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("客室削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

var _ room.Repository = (*RoomRepository)(nil)
