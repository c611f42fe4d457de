package handler

import (
	"context"
	"time"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/application"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/booking"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/identity"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
)

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error)
	ListBookings(ctx context.Context, input application.ListBookingsInput, actor identity.Actor) ([]*booking.Booking, error)
	ConfirmBooking(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error)
	CheckIn(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error)
	CheckOut(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id string, actor identity.Actor) (*booking.Booking, error)
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
}

// RoomServiceInterface は客室サービスのインターフェース
type RoomServiceInterface interface {
	CreateRoom(ctx context.Context, input application.CreateRoomInput) (*room.Room, error)
	GetRoom(ctx context.Context, id string) (*room.Room, error)
	GetRoomStatus(ctx context.Context, id string) (room.Status, error)
	ListRooms(ctx context.Context, limit, offset int) ([]*room.Room, error)
	UpdateRoom(ctx context.Context, input application.UpdateRoomInput) (*room.Room, error)
	SetMaintenance(ctx context.Context, id string, on bool) (*room.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}
