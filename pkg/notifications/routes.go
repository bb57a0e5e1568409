package notifications

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers notification routes and returns the service so it
// can be handed to the library as its notifier.
func RegisterRoutes(e *echo.Echo, db *bun.DB) *Service {
	notificationService := NewService(db)

	h := &handler{
		notificationService: notificationService,
	}

	g := e.Group("/notifications")
	g.GET("", h.list)

	return notificationService
}
