package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/davrbek/folio/internal/auth"
	"github.com/davrbek/folio/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/auth/login. On success it issues an opaque bearer
// token; only its hash is stored.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a hash comparison so missing accounts take as long as
			// wrong passwords.
			_, _ = auth.CheckPassword(req.Password, auth.DummyHash)
			writeMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "logging in", err)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "logging in", err)
		return
	}
	expiresAt := time.Now().Add(auth.TokenTTL)
	if _, err := h.queries.CreateAuthToken(ctx, user.ID, auth.HashToken(token), expiresAt); err != nil {
		h.writeError(w, http.StatusInternalServerError, "logging in", err)
		return
	}

	h.logger.Info("admin login", "user", user.Email)
	writeData(w, loginResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		writeMessage(w, http.StatusBadRequest, "missing bearer token")
		return
	}

	if err := h.queries.DeleteAuthToken(r.Context(), auth.HashToken(token)); err != nil {
		h.writeError(w, http.StatusInternalServerError, "logging out", err)
		return
	}
	writeMessage(w, http.StatusOK, "logged out")
}

// Me handles GET /api/auth/me for the authenticated admin.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeData(w, user)
}
