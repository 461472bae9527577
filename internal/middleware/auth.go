package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/davrbek/folio/internal/auth"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
)

// ContextKeyUser is the context key for the authenticated admin user.
const ContextKeyUser ContextKey = "user"

// WriteAPIError writes a JSON error response in the API envelope shape.
func WriteAPIError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// BearerAuth creates middleware that validates an admin bearer token from
// the Authorization header against the auth_tokens table.
func BearerAuth(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				WriteAPIError(w, http.StatusUnauthorized, "invalid Authorization header, use: Bearer <token>")
				return
			}

			token, err := queries.GetAuthTokenByHash(r.Context(), auth.HashToken(parts[1]))
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					WriteAPIError(w, http.StatusUnauthorized, "invalid token")
				} else {
					slog.Error("validating token", "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "failed to validate token")
				}
				return
			}
			if token.IsExpired(time.Now()) {
				WriteAPIError(w, http.StatusUnauthorized, "token expired")
				return
			}

			user, err := queries.GetUserByID(r.Context(), token.UserID)
			if err != nil {
				slog.Error("loading token user", "error", err, "user_id", token.UserID)
				WriteAPIError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			touchTokenLastUsed(queries, token.ID)

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the authenticated admin user from the request context.
// Returns nil outside of BearerAuth-protected routes.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// touchTokenLastUsed updates the last-used timestamp in a background
// goroutine so the request does not wait on the write.
func touchTokenLastUsed(queries *store.Queries, tokenID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queries.UpdateAuthTokenLastUsed(ctx, tokenID); err != nil {
			slog.Warn("updating token last_used_at", "error", err)
		}
	}()
}
