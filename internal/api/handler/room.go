package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/application"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/room"
)

type RoomHandler struct {
	roomService    RoomServiceInterface
	bookingService BookingServiceInterface
}

func NewRoomHandler(rs RoomServiceInterface, bs BookingServiceInterface) *RoomHandler {
	return &RoomHandler{roomService: rs, bookingService: bs}
}

type CreateRoomRequest struct {
	RoomNumber    string `json:"room_number" validate:"required" example:"301"`
	RoomType      string `json:"room_type" example:"double"`
	Capacity      int    `json:"capacity" validate:"required,min=1" example:"2"`
	PricePerNight int    `json:"price_per_night" validate:"min=0" example:"12000"`
}

type UpdateRoomRequest struct {
	RoomNumber    string `json:"room_number" validate:"required"`
	RoomType      string `json:"room_type"`
	Capacity      int    `json:"capacity" validate:"required,min=1"`
	PricePerNight int    `json:"price_per_night" validate:"min=0"`
}

type SetMaintenanceRequest struct {
	On bool `json:"on"`
}

type RoomResponse struct {
	ID            string    `json:"id"`
	RoomNumber    string    `json:"room_number"`
	RoomType      string    `json:"room_type"`
	Capacity      int       `json:"capacity"`
	PricePerNight int       `json:"price_per_night"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type AvailabilityResponse struct {
	RoomID    string    `json:"room_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Available bool      `json:"available"`
}

func toRoomResponse(r *room.Room) RoomResponse {
	return RoomResponse{
		ID: r.ID, RoomNumber: r.RoomNumber, RoomType: r.RoomType,
		Capacity: r.Capacity, PricePerNight: r.PricePerNight,
		Status: string(r.Status), CreatedAt: r.CreatedAt,
	}
}

// Create godoc
// @Summary 客室を作成
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "客室情報"
// @Success 201 {object} RoomResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "客室番号の重複"
// @Router /rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rm, err := h.roomService.CreateRoom(c.Request().Context(), application.CreateRoomInput{
		RoomNumber: req.RoomNumber, RoomType: req.RoomType,
		Capacity: req.Capacity, PricePerNight: req.PricePerNight,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toRoomResponse(rm))
}

// List godoc
// @Summary 客室一覧を取得
// @Tags rooms
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} RoomResponse
// @Router /rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	rooms, err := h.roomService.ListRooms(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]RoomResponse, len(rooms))
	for i, rm := range rooms {
		resp[i] = toRoomResponse(rm)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 客室を取得
// @Tags rooms
// @Produce json
// @Param id path string true "客室ID"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetByID(c echo.Context) error {
	rm, err := h.roomService.GetRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// Availability godoc
// @Summary 空室状況を取得
// @Description 指定期間に客室が予約可能かを返します
// @Tags rooms
// @Produce json
// @Param id path string true "客室ID"
// @Param from query string true "チェックイン日"
// @Param to query string true "チェックアウト日"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id}/availability [get]
func (h *RoomHandler) Availability(c echo.Context) error {
	from, okFrom := parseTimeParam(c.QueryParam("from"))
	to, okTo := parseTimeParam(c.QueryParam("to"))
	if !okFrom || !okTo {
		return echo.NewHTTPError(http.StatusBadRequest, "from と to は必須です")
	}
	roomID := c.Param("id")
	available, err := h.bookingService.IsRoomAvailable(c.Request().Context(), roomID, from, to)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		RoomID: roomID, From: from, To: to, Available: available,
	})
}

// Update godoc
// @Summary 客室を更新
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "客室ID"
// @Param request body UpdateRoomRequest true "客室情報"
// @Success 200 {object} RoomResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [put]
func (h *RoomHandler) Update(c echo.Context) error {
	var req UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rm, err := h.roomService.UpdateRoom(c.Request().Context(), application.UpdateRoomInput{
		ID: c.Param("id"), RoomNumber: req.RoomNumber, RoomType: req.RoomType,
		Capacity: req.Capacity, PricePerNight: req.PricePerNight,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// SetMaintenance godoc
// @Summary 客室のメンテナンス状態を切り替え
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "客室ID"
// @Param request body SetMaintenanceRequest true "メンテナンスフラグ"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} map[string]string
// @Router /rooms/{id}/maintenance [post]
func (h *RoomHandler) SetMaintenance(c echo.Context) error {
	var req SetMaintenanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	rm, err := h.roomService.SetMaintenance(c.Request().Context(), c.Param("id"), req.On)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// Delete godoc
// @Summary 客室を削除
// @Tags rooms
// @Param id path string true "客室ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Delete(c echo.Context) error {
	if err := h.roomService.DeleteRoom(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
