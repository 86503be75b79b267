package middleware

import (
	"net/http"
	"strconv"
)

const defaultMaxBodyBytes = int64(1 << 20)

// MaxBodyMiddleware caps the request body at MAX_BODY_BYTES (default 1 MiB).
// Oversized bodies surface as decode errors in the JSON handlers.
func MaxBodyMiddleware(next http.Handler) http.Handler {
	limit := defaultMaxBodyBytes
	if v, err := strconv.ParseInt(getenv("MAX_BODY_BYTES", ""), 10, 64); err == nil && v > 0 {
		limit = v
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
