package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	testlog "service-rider-notify/internal/testutil"
)

func TestPing(t *testing.T) {
	h := New(testlog.New().Logger())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	h.Ping(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "pong", body["message"])
}

func TestHealthcheckHead(t *testing.T) {
	h := New(testlog.New().Logger())

	req := httptest.NewRequest(http.MethodHead, "/healthcheck", nil)
	rr := httptest.NewRecorder()
	h.HealthcheckHead(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestNotFound(t *testing.T) {
	h := New(testlog.New().Logger())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	h.NotFound(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var body errResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "route not found", body.Error)
}
