package members

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers member routes and returns the service so it can be
// shared as the member directory.
func RegisterRoutes(e *echo.Echo, db *bun.DB) *Service {
	memberService := NewService(db)

	h := &handler{
		memberService: memberService,
	}

	g := e.Group("/members")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.DELETE("/:id", h.deactivate)

	return memberService
}
