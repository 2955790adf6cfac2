package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/travel-planner/backend/internal/middleware"
)

// drainHandler reads the full request body, answering 413 if the read fails
// because the limit was exceeded. Mirrors what json.Decoder-based handlers see.
func drainHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge),
					http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "read error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMaxBodySize_allowsSmallBody(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(64)(drainHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/travel-plans", strings.NewReader(`{"title":"x"}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxBodySize_rejectsByContentLength(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(8)(drainHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/travel-plans", strings.NewReader(strings.Repeat("a", 64)))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMaxBodySize_rejectsOversizedStream(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(8)(drainHandler())

	// No Content-Length: force the MaxBytesReader path.
	req := httptest.NewRequest(http.MethodPost, "/api/travel-plans", strings.NewReader(strings.Repeat("a", 64)))
	req.ContentLength = -1
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
