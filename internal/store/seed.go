package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/davrbek/folio/internal/auth"
	"github.com/davrbek/folio/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the initial admin user and default settings. Empty email or
// password fall back to the defaults. It is safe to run on every start.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	queries := New(db)

	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	if err := seedAdmin(ctx, queries, adminEmail, adminPassword); err != nil {
		return err
	}
	return seedSettings(ctx, queries)
}

func seedAdmin(ctx context.Context, queries *Queries, email, password string) error {
	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, email, DefaultAdminName, passwordHash)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

// seedSettings inserts the default public settings if none exist yet.
func seedSettings(ctx context.Context, queries *Queries) error {
	settings, err := queries.ListSettings(ctx)
	if err != nil {
		return fmt.Errorf("listing settings: %w", err)
	}
	if len(settings) > 0 {
		return nil
	}

	defaults := []UpsertSettingParams{
		{Key: "site.owner", Value: "Davrbek", Group: model.SettingGroupGeneral, Public: true},
		{Key: "site.email", Value: "hello@example.com", Group: model.SettingGroupGeneral, Public: true},
		{Key: "site.cv_url", Value: "/uploads/cv.pdf", Group: model.SettingGroupGeneral, Public: true},
		{Key: "social.github", Value: "https://github.com", Group: model.SettingGroupSocial, Public: true},
		{Key: "social.linkedin", Value: "https://linkedin.com", Group: model.SettingGroupSocial, Public: true},
		{Key: "social.telegram", Value: "https://t.me", Group: model.SettingGroupSocial, Public: true},
	}
	for _, s := range defaults {
		if err := queries.UpsertSetting(ctx, s); err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.Key, err)
		}
	}
	slog.Info("seeded default settings", "count", len(defaults))
	return nil
}
