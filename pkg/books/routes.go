package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the read-only book routes and returns the service
// so it can back the library as its book store.
func RegisterRoutes(e *echo.Echo, db *bun.DB) *Service {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	g := e.Group("/books")
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)

	return bookService
}
