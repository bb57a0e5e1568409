package notifications

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	notificationService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListNotificationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	notifications, total, err := h.notificationService.ListNotificationsWithTotal(ctx, ListNotificationsOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		MemberID: params.MemberID,
		Type:     params.Type,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"notifications": notifications,
		"total":         total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
