package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func handle(err error) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	NewHandler().Handle(err, e.NewContext(req, rr))
	return rr
}

func TestHandle_CustomError(t *testing.T) {
	rr := handle(errors.WithStack(InvalidArgument("title")))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"invalid_argument","message":"Invalid argument \"title\"","status_code":422}}`, rr.Body.String())
}

func TestHandle_InvalidOperation(t *testing.T) {
	rr := handle(InvalidOperation("invalid member"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"invalid_operation","message":"invalid member","status_code":409}}`, rr.Body.String())
}

func TestHandle_EchoError(t *testing.T) {
	rr := handle(echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"method_not_allowed"`)
}

func TestHandle_GenericError(t *testing.T) {
	rr := handle(errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_server_error","message":"Internal Server Error","status_code":500}}`, rr.Body.String())
}

func TestError_Is(t *testing.T) {
	err := errors.Wrap(NotFound("Book"), "lookup")

	assert.ErrorIs(t, err, NotFound("Book"))
	assert.NotErrorIs(t, err, NotFound("Member"))
	assert.NotErrorIs(t, InvalidArgument("title"), InvalidArgument("copies"))
}
