package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/extkit/logger"
)

// Probe paths are served without a log line.
var quietPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// RequestLogger writes one line per request once it completed. Server
// errors log at error, client errors at warn and the rest at debug.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			began := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.Status()
			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(began).Milliseconds(),
			)
			if id := RequestIDFrom(r.Context()); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logAt(log, status)("Request completed", fields)
		})
	}
}

func logAt(log *logger.Logger, status int) func(string, ...map[string]interface{}) {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error
	case status >= http.StatusBadRequest:
		return log.Warn
	}
	return log.Debug
}
