package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookWriter(t *testing.T) {
	t.Parallel()

	t.Run("hook runs once before header flush", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		calls := 0
		hw := newHookWriter(rec, func(status int) {
			calls++
			rec.Header().Set("X-Hooked", http.StatusText(status))
		})

		hw.WriteHeader(http.StatusCreated)
		hw.WriteHeader(http.StatusInternalServerError)
		_, _ = hw.Write([]byte("abc"))
		hw.finish()

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, http.StatusCreated, hw.Status())
		assert.Equal(t, "Created", rec.Header().Get("X-Hooked"))
		assert.Equal(t, 3, hw.bytes)
	})

	t.Run("write without header implies 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		var seen int
		hw := newHookWriter(rec, func(status int) { seen = status })

		_, _ = hw.Write([]byte("x"))
		assert.Equal(t, http.StatusOK, seen)
		assert.Equal(t, http.StatusOK, hw.Status())
	})

	t.Run("finish runs hook when nothing was written", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		called := false
		hw := newHookWriter(rec, func(int) { called = true })

		hw.finish()
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, hw.Status())
	})

	t.Run("unwrap", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		hw := newHookWriter(rec, nil)
		assert.Same(t, rec, hw.Unwrap())
	})
}
