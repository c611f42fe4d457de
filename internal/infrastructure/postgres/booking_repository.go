package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/booking"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/transaction"
)

const bookingColumns = `id, user_id, room_id, check_in_date, check_out_date, status, created_at, updated_at`

type bookingRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	RoomID    string    `db:"room_id"`
	CheckIn   time.Time `db:"check_in_date"`
	CheckOut  time.Time `db:"check_out_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, UserID: r.UserID, RoomID: r.RoomID,
		CheckIn: r.CheckIn, CheckOut: r.CheckOut,
		Status:    booking.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ext は tx があればその中で、なければ db 直結でクエリを実行するための選択
func (r *BookingRepository) ext(tx transaction.Tx) sqlx.ExtContext {
	if tx != nil {
		if sqlxTx := UnwrapTx(tx); sqlxTx != nil {
			return sqlxTx
		}
	}
	return r.db
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	query := `INSERT INTO bookings (user_id, room_id, check_in_date, check_out_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.ext(tx).QueryRowxContext(ctx, query,
		b.UserID, b.RoomID, b.CheckIn, b.CheckOut, string(b.Status), b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		// exclusion_violation: 期間重複の排他制約（最終防衛線）
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23P01" {
			return &booking.RoomNotAvailableError{RoomID: b.RoomID, CheckIn: b.CheckIn, CheckOut: b.CheckOut}
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, r.ext(tx), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) List(ctx context.Context, filter booking.ListFilter) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if filter.UserID != "" {
		add("user_id = ", filter.UserID)
	}
	if filter.RoomID != "" {
		add("room_id = ", filter.RoomID)
	}
	if filter.Status != "" {
		add("status = ", string(filter.Status))
	}
	if filter.From != nil {
		add("check_in_date >= ", *filter.From)
	}
	if filter.To != nil {
		add("check_out_date <= ", *filter.To)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *BookingRepository) GetOverlapping(ctx context.Context, tx transaction.Tx, roomID string, checkIn, checkOut time.Time) ([]*booking.Booking, error) {
	// 半開区間 [check_in, check_out) 同士の重なり判定
	// 境界が接するだけの予約（当日チェックアウト→当日チェックイン）は競合しない
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE room_id = $1
		  AND status = ANY($2)
		  AND check_in_date < $4
		  AND check_out_date > $3
		ORDER BY check_in_date`
	statuses := make([]string, 0, 3)
	for _, s := range booking.LiveStatuses() {
		statuses = append(statuses, string(s))
	}
	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, r.ext(tx), &rows, query, roomID, pq.Array(statuses), checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("重複予約の取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *BookingRepository) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.ext(tx).ExecContext(ctx, query, string(b.Status), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) GetPendingBefore(ctx context.Context, before time.Time) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'pending' AND check_in_date < $1`
	if err := r.db.SelectContext(ctx, &rows, query, before); err != nil {
		return nil, fmt.Errorf("保留中予約の取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
