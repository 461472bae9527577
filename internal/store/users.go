package store

import (
	"context"
	"time"

	"github.com/davrbek/folio/internal/model"
)

const userColumns = `id, email, name, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts an admin user and returns it.
func (q *Queries) CreateUser(ctx context.Context, email, name, passwordHash string) (model.User, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		email, name, passwordHash, now, now,
	)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// GetUserByID returns a user by id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail returns a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id)
	return err
}

// CountUsers counts admin users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM users`)
}

// ---------------------------------------------------------------------------
// Auth tokens

const authTokenColumns = `id, user_id, token_hash, expires_at, last_used_at, created_at`

func scanAuthToken(row interface{ Scan(...any) error }) (model.AuthToken, error) {
	var t model.AuthToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt,
		&t.LastUsedAt, &t.CreatedAt)
	return t, err
}

// CreateAuthToken stores a token hash for a user.
func (q *Queries) CreateAuthToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (model.AuthToken, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, tokenHash, expiresAt, now,
	)
	if err != nil {
		return model.AuthToken{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AuthToken{}, err
	}
	return model.AuthToken{
		ID:        id,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// GetAuthTokenByHash returns a token by its hash.
func (q *Queries) GetAuthTokenByHash(ctx context.Context, tokenHash string) (model.AuthToken, error) {
	return scanAuthToken(q.db.QueryRowContext(ctx,
		`SELECT `+authTokenColumns+` FROM auth_tokens WHERE token_hash = ?`, tokenHash))
}

// UpdateAuthTokenLastUsed stamps a token's last use.
func (q *Queries) UpdateAuthTokenLastUsed(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE auth_tokens SET last_used_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// DeleteAuthToken revokes a token by hash.
func (q *Queries) DeleteAuthToken(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE token_hash = ?`, tokenHash)
	return err
}

// DeleteExpiredAuthTokens prunes tokens past their expiry. Returns the
// number removed.
func (q *Queries) DeleteExpiredAuthTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
