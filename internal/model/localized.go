package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Language codes supported by the site.
const (
	LangUz = "uz"
	LangEn = "en"
	LangRu = "ru"
)

// DefaultLanguage is the site's primary language.
const DefaultLanguage = LangUz

// Languages lists all supported language codes in display order.
var Languages = []string{LangUz, LangEn, LangRu}

// LocalizedText holds a value that is either a plain string or a
// per-language mapping. Legacy content created before the site became
// multilingual is stored as a bare string; newer content stores all
// languages together.
type LocalizedText struct {
	Plain string
	Map   map[string]string
}

// NewLocalized builds a per-language value from uz/en/ru strings.
func NewLocalized(uz, en, ru string) LocalizedText {
	return LocalizedText{Map: map[string]string{LangUz: uz, LangEn: en, LangRu: ru}}
}

// PlainText wraps a non-localized string.
func PlainText(s string) LocalizedText {
	return LocalizedText{Plain: s}
}

// IsZero reports whether the value holds no text at all.
func (t LocalizedText) IsZero() bool {
	if t.Map == nil {
		return t.Plain == ""
	}
	for _, v := range t.Map {
		if v != "" {
			return false
		}
	}
	return true
}

// In resolves the value for the given language. Plain strings are returned
// unchanged. For mappings the fallback order is fixed: requested language,
// then en, then uz, then empty string.
func (t LocalizedText) In(lang string) string {
	if t.Map == nil {
		return t.Plain
	}
	if v := t.Map[lang]; v != "" {
		return v
	}
	if v := t.Map[LangEn]; v != "" {
		return v
	}
	if v := t.Map[LangUz]; v != "" {
		return v
	}
	return ""
}

// Missing returns the language codes that have no text yet.
func (t LocalizedText) Missing() []string {
	if t.Map == nil {
		return nil
	}
	var out []string
	for _, lang := range Languages {
		if t.Map[lang] == "" {
			out = append(out, lang)
		}
	}
	return out
}

// MarshalJSON emits a bare string for plain values and an object keyed by
// language code otherwise.
func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.Map == nil {
		return json.Marshal(t.Plain)
	}
	return json.Marshal(t.Map)
}

// UnmarshalJSON accepts either a JSON string or an object of language code
// to string.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Plain = s
		t.Map = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("localized text must be a string or an object of strings: %w", err)
	}
	t.Plain = ""
	t.Map = m
	return nil
}

// Value implements driver.Valuer so localized text can be stored as JSON.
func (t LocalizedText) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON columns.
func (t *LocalizedText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = LocalizedText{}
		return nil
	case string:
		if v == "" {
			*t = LocalizedText{}
			return nil
		}
		return t.UnmarshalJSON([]byte(v))
	case []byte:
		if len(v) == 0 {
			*t = LocalizedText{}
			return nil
		}
		return t.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into LocalizedText", src)
	}
}
