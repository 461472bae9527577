// Package i18n resolves UI text against per-language dictionaries with
// admin-managed overrides layered on top.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/davrbek/folio/internal/model"
)

//go:embed locales
var localesFS embed.FS

// SupportedLanguages lists the site languages in display order.
var SupportedLanguages = []string{model.LangUz, model.LangEn, model.LangRu}

// DefaultLanguage is used when no preference can be determined.
const DefaultLanguage = model.DefaultLanguage

// Resolver resolves dot-separated key paths to display text. Lookups walk
// the dynamic override dictionary first and fall back to the static
// per-language bundle. Static dictionaries are loaded once from the
// embedded locales; overrides are replaced wholesale from site settings.
type Resolver struct {
	mu        sync.RWMutex
	static    map[string]map[string]any // lang -> nested dictionary
	overrides map[string]any            // nested dictionary of localized values
	matcher   language.Matcher
	logger    *slog.Logger
}

// New loads the embedded static dictionaries for all supported languages.
func New(logger *slog.Logger) (*Resolver, error) {
	r := &Resolver{
		static:    make(map[string]map[string]any, len(SupportedLanguages)),
		overrides: map[string]any{},
		logger:    logger,
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	r.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		path := fmt.Sprintf("locales/%s/messages.json", lang)
		data, err := localesFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var dict map[string]any
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		r.static[lang] = normalize(dict)
		if logger != nil {
			logger.Debug("loaded locale", "language", lang, "namespaces", len(dict))
		}
	}

	return r, nil
}

// normalize converts decoded JSON arrays into []string so callers of
// ResolveValue get a typed slice.
func normalize(dict map[string]any) map[string]any {
	for k, v := range dict {
		switch val := v.(type) {
		case map[string]any:
			dict[k] = normalize(val)
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					items = append(items, s)
				}
			}
			dict[k] = items
		}
	}
	return dict
}

// Resolve returns the display string for the key path in the given
// language. A missing key degrades to fallback when non-empty, otherwise
// to the raw key path itself, which doubles as a visible missing-translation
// marker. Leaves that are not strings (see ResolveValue) also degrade.
func (r *Resolver) Resolve(lang, keyPath, fallback string) string {
	v, ok := r.lookup(lang, keyPath)
	if ok {
		if s, isStr := v.(string); isStr {
			return s
		}
	}
	if fallback != "" {
		return fallback
	}
	return keyPath
}

// ResolveValue returns the raw value for the key path: a string for
// ordinary entries or a []string for list-valued entries such as rotating
// hero phrases. The boolean reports whether the path resolved at all.
func (r *Resolver) ResolveValue(lang, keyPath string) (any, bool) {
	return r.lookup(lang, keyPath)
}

// ResolveField resolves a localized value for the given language using the
// fixed fallback order (lang, en, uz, empty).
func (r *Resolver) ResolveField(lang string, t model.LocalizedText) string {
	return t.In(lang)
}

func (r *Resolver) lookup(lang, keyPath string) (any, bool) {
	segments := strings.Split(keyPath, ".")

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Dynamic overrides first. An override leaf is either a plain string
	// (applies to every language) or a per-language map. A map without an
	// entry for the requested language is a deliberate miss, not an error:
	// resolution falls through to the static bundle.
	if leaf, ok := walk(r.overrides, segments); ok {
		switch v := leaf.(type) {
		case string:
			return v, true
		case map[string]string:
			if s := v[lang]; s != "" {
				return s, true
			}
		case map[string]any:
			if s, isStr := v[lang].(string); isStr && s != "" {
				return s, true
			}
		}
	}

	dict, ok := r.static[lang]
	if !ok {
		return nil, false
	}
	return walk(dict, segments)
}

// walk descends the nested dictionary segment by segment. It abandons the
// branch if a segment is missing or an intermediate node is not a mapping.
func walk(node map[string]any, segments []string) (any, bool) {
	var current any = node
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetOverrides replaces the dynamic override dictionary wholesale. Keys in
// the previous dictionary that are absent from the new one are dropped;
// overrides are never merged incrementally.
func (r *Resolver) SetOverrides(overrides map[string]any) {
	if overrides == nil {
		overrides = map[string]any{}
	}
	r.mu.Lock()
	r.overrides = overrides
	r.mu.Unlock()
}

// OverridesFromSettings builds an override dictionary from translation
// settings. Each setting key is a dot path; the value is localized JSON.
func OverridesFromSettings(settings []model.Setting) map[string]any {
	overrides := map[string]any{}
	for _, s := range settings {
		if !s.IsTranslation() || s.Value == "" {
			continue
		}
		var text model.LocalizedText
		if err := json.Unmarshal([]byte(s.Value), &text); err != nil {
			continue
		}
		insert(overrides, strings.Split(s.Key, "."), text)
	}
	return overrides
}

// insert places a localized value at the dot path, creating intermediate
// namespaces. Conflicting non-map intermediates are replaced.
func insert(node map[string]any, segments []string, text model.LocalizedText) {
	for i, seg := range segments {
		if i == len(segments)-1 {
			if text.Map != nil {
				node[seg] = text.Map
			} else {
				node[seg] = text.Plain
			}
			return
		}
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
}

// IsSupported checks whether a language code is one of the site languages.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// MatchLanguage finds the best supported language for an Accept-Language
// header or bare code, defaulting to uz.
func (r *Resolver) MatchLanguage(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(SupportedLanguages) {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}
