package library

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the lending routes on top of an already wired
// service.
func RegisterRoutes(e *echo.Echo, libraryService *Service) {
	h := &handler{
		libraryService: libraryService,
	}

	g := e.Group("/library")
	g.GET("/available", h.available)
	g.POST("/books", h.addBook)
	g.POST("/borrow", h.borrow)
	g.POST("/return", h.giveBack)
}
