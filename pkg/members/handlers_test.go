package members

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/shelf/pkg/binder"
	"github.com/shishobooks/shelf/pkg/errcodes"
	"github.com/shishobooks/shelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMembersTestContext(t *testing.T, method, payload, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandlerCreate(t *testing.T) {
	t.Parallel()

	h := &handler{memberService: NewService(newTestDB(t))}

	c, rr := newMembersTestContext(t, http.MethodPost, `{"name":" Octavia "}`, "/members")
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	member := &models.Member{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), member))
	assert.NotZero(t, member.ID)
	assert.Equal(t, "Octavia", member.Name)
}

func TestHandlerCreate_MissingName(t *testing.T) {
	t.Parallel()

	h := &handler{memberService: NewService(newTestDB(t))}

	c, _ := newMembersTestContext(t, http.MethodPost, `{"name":""}`, "/members")
	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
	assert.Equal(t, `"name" is required`, codeErr.Message)
}

func TestHandlerDeactivate(t *testing.T) {
	t.Parallel()

	h := &handler{memberService: NewService(newTestDB(t))}
	ctx := context.Background()

	member := &models.Member{Name: "Octavia"}
	require.NoError(t, h.memberService.CreateMember(ctx, member))

	c, rr := newMembersTestContext(t, http.MethodDelete, "", "/members/"+strconv.Itoa(member.ID))
	c.SetPath("/members/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(member.ID))

	require.NoError(t, h.deactivate(c))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	valid, err := h.memberService.IsValidMember(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHandlerRetrieve_BadID(t *testing.T) {
	t.Parallel()

	h := &handler{memberService: NewService(newTestDB(t))}

	c, _ := newMembersTestContext(t, http.MethodGet, "", "/members/abc")
	c.SetPath("/members/:id")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.retrieve(c)
	assert.ErrorIs(t, err, errcodes.NotFound("Member"))
}
