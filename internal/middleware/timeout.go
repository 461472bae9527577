package middleware

import (
	"net/http"
	"time"
)

// Timeout enforces a request deadline. A handler that overruns it gets its
// context cancelled and the client receives a 503 with the JSON envelope's
// message field, matching the API error shape.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	const body = `{"message":"request timed out"}`
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, body)
	}
}
