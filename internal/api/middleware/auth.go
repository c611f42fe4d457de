package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sheyswaggz/hotel-check-in-3-sub001/internal/domain/identity"
)

const actorContextKey = "actor"

// Actor は認証済みゲートウェイが付与したヘッダーから操作主体を組み立てる
// 資格情報の検証は外部ゲートウェイの責務で、ここでは行わない
// X-User-Role が欠落・未知の場合は最小権限の guest として扱う
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get("X-User-ID")
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
			}
			c.Set(actorContextKey, identity.Actor{
				UserID: userID,
				Role:   identity.ParseRole(c.Request().Header.Get("X-User-Role")),
			})
			return next(c)
		}
	}
}

// ActorFrom はリクエストコンテキストから操作主体を取り出す
func ActorFrom(c echo.Context) identity.Actor {
	if a, ok := c.Get(actorContextKey).(identity.Actor); ok {
		return a
	}
	return identity.Actor{Role: identity.RoleGuest}
}

// RequireAdmin は管理者のみ通過できるミドルウェア
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "管理者権限が必要です")
			}
			return next(c)
		}
	}
}
