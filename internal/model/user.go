package model

import (
	"database/sql"
	"time"
)

// User represents an admin user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthToken is a bearer token issued at admin login. Only the SHA-256 hash
// is stored; the raw token is returned to the client once.
type AuthToken struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	TokenHash  string       `json:"-"`
	ExpiresAt  time.Time    `json:"expires_at"`
	LastUsedAt sql.NullTime `json:"-"`
	CreatedAt  time.Time    `json:"created_at"`
}

// IsExpired reports whether the token is past its expiry.
func (t *AuthToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
