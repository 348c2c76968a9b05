package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"blogapi/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

const requestIDCtxKey contextKey = "requestID"

// RequestLogger tags each request with an id, echoed in X-Request-ID, and
// logs one line per request once the response is written. A client supplied
// id is kept.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDCtxKey, requestID)
			rw := wrapResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			fields := logger.Fields{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"query":       r.URL.RawQuery,
				"status":      rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			}

			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				log.ErrorContext(ctx, "Request failed", fields)
			case rw.statusCode >= http.StatusBadRequest:
				log.WarnContext(ctx, "Request rejected", fields)
			default:
				log.InfoContext(ctx, "Request handled", fields)
			}
		})
	}
}

func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDCtxKey).(string)
	return id, ok
}
