package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/davrbek/folio/internal/i18n"
	"github.com/davrbek/folio/internal/model"
)

// ContextKeyLanguage is the context key for the active language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for the language preference.
const LanguageCookieName = "folio_lang"

// Language creates middleware that detects the active language for the
// request. Priority order:
//  1. Query parameter ?lang=xx (explicit switch, updates the cookie)
//  2. Cookie preference
//  3. Accept-Language header
//  4. Default language
func Language(resolver *i18n.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""

			if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" && i18n.IsSupported(q) {
				lang = q
				SetLanguageCookie(w, lang)
			}

			if lang == "" {
				if cookie, err := r.Cookie(LanguageCookieName); err == nil {
					if c := strings.ToLower(cookie.Value); i18n.IsSupported(c) {
						lang = c
					}
				}
			}

			if lang == "" {
				lang = resolver.MatchLanguage(r.Header.Get("Accept-Language"))
			}

			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLanguage retrieves the active language code from the request context.
func GetLanguage(r *http.Request) string {
	lang, ok := r.Context().Value(ContextKeyLanguage).(string)
	if !ok || lang == "" {
		return model.DefaultLanguage
	}
	return lang
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
