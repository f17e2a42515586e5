package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/logger"
)

// Recovery answers a panicking handler with a 500 INTERNAL_ERROR body and
// logs the stack. http.ErrAbortHandler is re-raised for net/http.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("panic: %v", rec)
					log.Error("Panic recovered", logger.MergeWithError(logger.Fields(
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					), err))
					writeJSON(w, http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
