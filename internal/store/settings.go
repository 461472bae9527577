package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/davrbek/folio/internal/model"
)

const settingColumns = `id, key, value, grp, public, updated_at`

func scanSetting(row interface{ Scan(...any) error }) (model.Setting, error) {
	var s model.Setting
	err := row.Scan(&s.ID, &s.Key, &s.Value, &s.Group, &s.Public, &s.UpdatedAt)
	return s, err
}

func scanSettings(rows *sql.Rows) ([]model.Setting, error) {
	defer rows.Close()
	var settings []model.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetSettingByKey returns a setting by key.
func (q *Queries) GetSettingByKey(ctx context.Context, key string) (model.Setting, error) {
	return scanSetting(q.db.QueryRowContext(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE key = ?`, key))
}

// ListSettings returns all settings ordered by group then key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+settingColumns+` FROM settings ORDER BY grp, key`)
	if err != nil {
		return nil, err
	}
	return scanSettings(rows)
}

// ListSettingsByGroup returns the settings of one group.
func (q *Queries) ListSettingsByGroup(ctx context.Context, group string) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE grp = ? ORDER BY key`, group)
	if err != nil {
		return nil, err
	}
	return scanSettings(rows)
}

// ListPublicSettings returns settings exposed to the public site.
func (q *Queries) ListPublicSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+settingColumns+` FROM settings WHERE public = 1 ORDER BY grp, key`)
	if err != nil {
		return nil, err
	}
	return scanSettings(rows)
}

// UpsertSettingParams holds fields for creating or replacing a setting.
type UpsertSettingParams struct {
	Key    string
	Value  string
	Group  string
	Public bool
}

// UpsertSetting inserts a setting or updates it in place when the key
// already exists.
func (q *Queries) UpsertSetting(ctx context.Context, p UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, grp, public, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			grp = excluded.grp,
			public = excluded.public,
			updated_at = excluded.updated_at`,
		p.Key, p.Value, p.Group, p.Public, time.Now(),
	)
	return err
}

// DeleteSetting removes a setting by key.
func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}
