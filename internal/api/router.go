package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/api/handler"
	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/api/middleware"
)

// RegisterRoutes はAPIルーティングを登録する
// 予約系は認証済みヘッダーを要求し、客室の変更系は管理者のみに制限する
// ライフサイクル遷移の権限判定はサービス層が行う
func RegisterRoutes(
	e *echo.Echo,
	bookingHandler *handler.BookingHandler,
	roomHandler *handler.RoomHandler,
	healthHandler *handler.HealthHandler,
) {
	e.GET("/health", healthHandler.Check)

	v1 := e.Group("/api/v1")

	rooms := v1.Group("/rooms")
	rooms.GET("", roomHandler.List)
	rooms.GET("/:id", roomHandler.GetByID)
	rooms.GET("/:id/availability", roomHandler.Availability)
	roomsAdmin := rooms.Group("", middleware.Actor(), middleware.RequireAdmin())
	roomsAdmin.POST("", roomHandler.Create)
	roomsAdmin.PUT("/:id", roomHandler.Update)
	roomsAdmin.POST("/:id/maintenance", roomHandler.SetMaintenance)
	roomsAdmin.DELETE("/:id", roomHandler.Delete)

	bookings := v1.Group("/bookings", middleware.Actor())
	bookings.POST("", bookingHandler.Create)
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.GetByID)
	bookings.POST("/:id/confirm", bookingHandler.Confirm)
	bookings.POST("/:id/check-in", bookingHandler.CheckIn)
	bookings.POST("/:id/check-out", bookingHandler.CheckOut)
	bookings.POST("/:id/cancel", bookingHandler.Cancel)
}
