package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf"
)

// CSRF returns middleware that rejects cross-origin browser writes using
// Fetch metadata headers. Bearer-authenticated admin routes do not need it;
// it guards the cookie-session public endpoints (likes, views, comments).
func CSRF(isDev bool) func(http.Handler) http.Handler {
	protection := csrf.New()
	if isDev {
		if err := protection.AddTrustedOrigin("http://localhost:8080"); err != nil {
			slog.Warn("adding trusted origin", "error", err)
		}
		if err := protection.AddTrustedOrigin("http://127.0.0.1:8080"); err != nil {
			slog.Warn("adding trusted origin", "error", err)
		}
	}

	failureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Warn("cross-origin request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"origin", r.Header.Get("Origin"),
			"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
		)
		WriteAPIError(w, http.StatusForbidden, "cross-origin request rejected")
	})

	return func(next http.Handler) http.Handler {
		return protection.HandlerWithFailHandler(next, failureHandler)
	}
}
