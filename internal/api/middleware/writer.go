package middleware

import "net/http"

// hookWriter records the response status and size and calls hook once,
// immediately before the header block is written.
type hookWriter struct {
	http.ResponseWriter
	hook        func(status int)
	status      int
	bytes       int
	wroteHeader bool
}

func newHookWriter(w http.ResponseWriter, hook func(status int)) *hookWriter {
	return &hookWriter{ResponseWriter: w, hook: hook}
}

// WriteHeader implements http.ResponseWriter. Repeated calls are dropped.
func (w *hookWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	if w.hook != nil {
		w.hook(code)
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write implements http.ResponseWriter.
func (w *hookWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush implements http.Flusher when the underlying writer does.
func (w *hookWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *hookWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// finish runs the hook for a handler that returned without writing. The
// server writes the header block after the handler returns, so header
// changes made here still reach the client.
func (w *hookWriter) finish() {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = http.StatusOK
	if w.hook != nil {
		w.hook(http.StatusOK)
	}
}

// Status returns the written status, defaulting to 200.
func (w *hookWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
