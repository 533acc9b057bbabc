package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		production bool
		handler    http.HandlerFunc
		wantHSTS   bool
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Server", "Go")
				w.Header().Set("X-Frame-Options", "SAMEORIGIN")
				w.WriteHeader(http.StatusTeapot)
			},
		},
		{
			name:    "handler writes nothing",
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
		{
			name:       "production adds HSTS",
			production: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantHSTS: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			SecurityHeaders(tc.production)(tc.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			h := rec.Header()
			assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
			assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
			assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
			assert.Contains(t, h.Get("Content-Security-Policy"), "frame-ancestors 'none';")
			assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
			assert.Equal(t, []string{ServerHeader}, h.Values("Server"))

			if tc.wantHSTS {
				assert.Equal(t, hstsValue, h.Get("Strict-Transport-Security"))
			} else {
				assert.Empty(t, h.Get("Strict-Transport-Security"))
			}
		})
	}
}

func TestSizeGuard(t *testing.T) {
	t.Parallel()

	t.Run("declared length over limit is rejected", func(t *testing.T) {
		t.Parallel()

		lg, buf := logger.NewTestLogger(t)
		called := false
		h := SizeGuard(10, lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(strings.Repeat("x", 11)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Request entity too large", rec.Body.String())

		entries, err := buf.EntriesWith("level", "WARN")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, float64(11), entries[0]["content_length"])
		assert.Equal(t, float64(10), entries[0]["max_size"])
		assert.Equal(t, "POST", entries[0]["method"])
	})

	t.Run("body at the limit passes", func(t *testing.T) {
		t.Parallel()

		lg, _ := logger.NewTestLogger(t)
		h := SizeGuard(10, lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(strings.Repeat("x", 10))))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown length is capped while reading", func(t *testing.T) {
		t.Parallel()

		lg, _ := logger.NewTestLogger(t)
		var readErr error
		h := SizeGuard(10, lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(strings.Repeat("x", 50)))
		req.ContentLength = -1
		h.ServeHTTP(httptest.NewRecorder(), req)

		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, readErr, &maxErr)
	})
}
