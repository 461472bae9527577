package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/davrbek/folio/internal/model"
)

const publicSettingsKey = "settings:public"

// SettingsCache caches the public settings list in front of the database.
// Admin writes invalidate it so the public endpoint serves fresh data on
// the next read.
type SettingsCache struct {
	cache Cache
	ttl   time.Duration
}

// NewSettingsCache wraps the given cache backend.
func NewSettingsCache(c Cache, ttl time.Duration) *SettingsCache {
	return &SettingsCache{cache: c, ttl: ttl}
}

// Get returns the cached public settings, or ErrCacheMiss.
func (s *SettingsCache) Get(ctx context.Context) ([]model.Setting, error) {
	raw, err := s.cache.Get(ctx, publicSettingsKey)
	if err != nil {
		return nil, err
	}
	var settings []model.Setting
	if err := json.Unmarshal(raw, &settings); err != nil {
		// Corrupt entry; drop it and report a miss.
		_ = s.cache.Delete(ctx, publicSettingsKey)
		return nil, ErrCacheMiss
	}
	return settings, nil
}

// Set stores the public settings list.
func (s *SettingsCache) Set(ctx context.Context, settings []model.Setting) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, publicSettingsKey, raw, s.ttl)
}

// Invalidate drops the cached settings after an admin write.
func (s *SettingsCache) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, publicSettingsKey)
}
