package library

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	libraryService *Service
}

func (h *handler) addBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.libraryService.AddBook(ctx, params.Title, params.Copies); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("copies added", logger.Data{"title": params.Title, "copies": params.Copies})

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) borrow(c echo.Context) error {
	ctx := c.Request().Context()

	params := LendingPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	ok, err := h.libraryService.BorrowBook(ctx, params.MemberID, params.Title)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, LendingResponse{Success: ok}))
}

func (h *handler) giveBack(c echo.Context) error {
	ctx := c.Request().Context()

	params := LendingPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	ok, err := h.libraryService.ReturnBook(ctx, params.MemberID, params.Title)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, LendingResponse{Success: ok}))
}

func (h *handler) available(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.libraryService.GetAvailableBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"books": books,
		"total": len(books),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
