package middleware

import (
	"net/http"
	"time"

	"cookmyshow/pkg/utils"

	"github.com/go-chi/httprate"
)

// RateLimit allows requests per window for each client IP using a sliding
// window counter; httprate sets Retry-After on rejection. A non-positive
// requests disables limiting.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests, please try again later", nil, nil)
		}),
	)
}
