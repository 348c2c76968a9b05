package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"blogapi/internal/api/response"
	"blogapi/pkg/logger"
)

// Recoverer turns a panic in a handler into a logged 500 with the usual
// JSON error body. http.ErrAbortHandler is re-raised so net/http can abort
// the connection.
func Recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				requestID, _ := GetRequestIDFromContext(r.Context())
				log.ErrorContext(r.Context(), "Handler panicked", logger.Fields{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
					"panic":      fmt.Sprint(rvr),
					"stack":      string(debug.Stack()),
				})

				response.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
