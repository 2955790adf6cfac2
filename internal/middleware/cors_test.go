package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/travel-planner/backend/internal/middleware"
)

func newCORSServer(origins ...string) http.Handler {
	return middleware.NewCORSHandler(origins)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
}

func TestCORS_allowedOrigin(t *testing.T) {
	h := newCORSServer("http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/api/travel-plans", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_disallowedOrigin(t *testing.T) {
	h := newCORSServer("http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/api/travel-plans", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	// The request itself still reaches the handler; the browser enforces the
	// policy based on the absent header.
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_preflight(t *testing.T) {
	h := newCORSServer("http://localhost:5173")

	req := httptest.NewRequest(http.MethodOptions, "/api/travel-plans/some-id", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}
