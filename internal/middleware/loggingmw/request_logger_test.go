package loggingmw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logLine struct {
	RequestID string `json:"request_id"`
	Status    int    `json:"status"`
	Method    string `json:"method"`
}

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, logLine) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var line logLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return rec, line
}

func TestRequestLoggerUsesGeneratedRequestID(t *testing.T) {
	t.Parallel()

	rec, line := serve(t, httptest.NewRequest(http.MethodGet, "/ping", nil))

	rid := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, rid)
	assert.Equal(t, rid, line.RequestID)
	assert.Equal(t, http.StatusOK, line.Status)
	assert.Equal(t, http.MethodGet, line.Method)
}

func TestRequestLoggerKeepsClientRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-rid-1")

	rec, line := serve(t, req)

	assert.Equal(t, "client-rid-1", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "client-rid-1", line.RequestID)
}
