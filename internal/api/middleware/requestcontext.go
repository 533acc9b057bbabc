package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
)

// Response headers stamped on every request.
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderProcessTime = "X-Process-Time"
)

// RequestContext assigns a correlation ID, arrival time and client identity
// to each request, and stamps X-Request-ID and X-Process-Time (milliseconds)
// on every response, including ones produced by later stages.
func RequestContext(now func() time.Time) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := &shared.RequestContext{
				RequestID: shared.NewRequestID(),
				ClientIP:  shared.ClientIP(r),
				Start:     now(),
			}

			hw := newHookWriter(w, func(int) {
				h := w.Header()
				h.Set(HeaderRequestID, rc.RequestID)
				h.Set(HeaderProcessTime, formatMillis(now().Sub(rc.Start)))
			})
			defer hw.finish()

			next.ServeHTTP(hw, r.WithContext(shared.WithRequestContext(r.Context(), rc)))
		})
	}
}

// millis converts d to milliseconds rounded to two decimals.
func millis(d time.Duration) float64 {
	return float64(d.Round(10*time.Microsecond)) / float64(time.Millisecond)
}

func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(millis(d), 'f', -1, 64)
}
