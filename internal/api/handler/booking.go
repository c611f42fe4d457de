package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/api/middleware"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/application"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/booking"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	RoomID   string    `json:"room_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	CheckIn  time.Time `json:"check_in" validate:"required" example:"2025-06-15T00:00:00Z"`
	CheckOut time.Time `json:"check_out" validate:"required" example:"2025-06-20T00:00:00Z"`
}

type BookingResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID    string    `json:"user_id" example:"user-123"`
	RoomID    string    `json:"room_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Status    string    `json:"status" example:"pending"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, UserID: b.UserID, RoomID: b.RoomID,
		CheckIn: b.CheckIn, CheckOut: b.CheckOut,
		Status: string(b.Status), CreatedAt: b.CreatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 空室判定を経て予約を保留状態で作成します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "指定期間に客室を予約できない"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID: actor.UserID, RoomID: req.RoomID, CheckIn: req.CheckIn, CheckOut: req.CheckOut,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// List godoc
// @Summary 予約一覧を取得
// @Description ゲストは自身の予約のみ、管理者は全予約を絞り込み付きで取得します
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param status query string false "ステータス"
// @Param room_id query string false "客室ID"
// @Param user_id query string false "ユーザーID（管理者のみ）"
// @Param from query string false "チェックイン日がこの日以降"
// @Param to query string false "チェックアウト日がこの日以前"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	input := application.ListBookingsInput{
		UserID: c.QueryParam("user_id"),
		RoomID: c.QueryParam("room_id"),
		Status: booking.Status(c.QueryParam("status")),
		Limit:  limit,
		Offset: offset,
	}
	if from, ok := parseTimeParam(c.QueryParam("from")); ok {
		input.From = &from
	}
	if to, ok := parseTimeParam(c.QueryParam("to")); ok {
		input.To = &to
	}

	bookings, err := h.service.ListBookings(c.Request().Context(), input, actor)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します（所有者または管理者のみ）
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Confirm godoc
// @Summary 予約を確定
// @Description 保留中の予約を確定します（管理者のみ）
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "不正なステータス遷移"
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c echo.Context) error {
	b, err := h.service.ConfirmBooking(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// CheckIn godoc
// @Summary チェックイン
// @Description 確定済みの予約をチェックインし、客室を滞在中にします（管理者のみ）
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string "不正なステータス遷移"
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c echo.Context) error {
	b, err := h.service.CheckIn(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// CheckOut godoc
// @Summary チェックアウト
// @Description 滞在中の予約をチェックアウトし、客室を解放します（管理者のみ）
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string "不正なステータス遷移"
// @Router /bookings/{id}/check-out [post]
func (h *BookingHandler) CheckOut(c echo.Context) error {
	b, err := h.service.CheckOut(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルします（所有者または管理者）
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "不正なステータス遷移"
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	b, err := h.service.CancelBooking(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// parseTimeParam は RFC3339 または日付のみ（2006-01-02）の文字列を解釈する
func parseTimeParam(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
