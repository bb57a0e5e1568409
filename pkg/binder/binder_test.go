package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/shelf/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type lendingParams struct {
	Title string `json:"title" validate:"required,notblank"`
}

type listParams struct {
	Limit  int     `query:"limit" default:"24" validate:"min=1,max=50"`
	Search *string `query:"search"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
	malformedJSON        = `{"hello":`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json bodies", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("reports malformed payloads", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", malformedJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.ErrorIs(tt, err, errcodes.MalformedPayload())
	})

	t.Run("rejects empty bodies on writes", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", "", echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.ErrorIs(tt, err, errcodes.EmptyRequestBody())
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("rejects blank titles", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", `{"title":"   "}`, echo.MIMEApplicationJSON)
		p := lendingParams{}
		err := b.Bind(&p, c)
		assert.ErrorIs(tt, err, errcodes.ValidationError(`"title" can't be blank`))
	})

	t.Run("decodes query params with defaults", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?search=dune", "", "")
		p := listParams{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, 24, p.Limit)
		require.NotNil(tt, p.Search)
		assert.Equal(tt, "dune", *p.Search)
	})

	t.Run("reports query type errors", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?limit=many", "", "")
		p := listParams{}
		err := b.Bind(&p, c)
		var codeErr *errcodes.Error
		require.ErrorAs(tt, err, &codeErr)
		assert.Equal(tt, "validation_type_error", codeErr.Code)
	})

	t.Run("reports unknown query params", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?sort=asc", "", "")
		p := listParams{}
		err := b.Bind(&p, c)
		assert.ErrorIs(tt, err, errcodes.UnknownParameter("sort"))
	})
}

func newContext(method, target, payload, mime string) echo.Context {
	e := echo.New()
	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(payload))
	}
	if mime != "" {
		req.Header.Set(echo.HeaderContentType, mime)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
