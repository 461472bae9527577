package model

import "time"

// Setting groups
const (
	SettingGroupGeneral      = "general"
	SettingGroupSocial       = "social"
	SettingGroupTranslations = "translations"
)

// Setting is a single key/value site setting. Settings in the
// "translations" group hold localized JSON values keyed by a dot path into
// the translation dictionary (e.g. "hero.greeting") and override the
// bundled static dictionaries.
type Setting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Group     string    `json:"group"`
	Public    bool      `json:"public"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTranslation reports whether the setting is a translation override.
func (s *Setting) IsTranslation() bool {
	return s.Group == SettingGroupTranslations
}
