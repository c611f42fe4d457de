package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/booking"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
)

// toHTTPError はドメインエラーをHTTPステータスへ対応付ける
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrUserIDRequired),
		errors.Is(err, booking.ErrRoomIDRequired),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, room.ErrRoomNumberRequired),
		errors.Is(err, room.ErrInvalidCapacity),
		errors.Is(err, room.ErrInvalidPrice),
		errors.Is(err, room.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrUnauthorizedAccess):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, room.ErrRoomNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrRoomNotAvailable),
		errors.Is(err, booking.ErrInvalidStatusTransition),
		errors.Is(err, room.ErrRoomNumberTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
