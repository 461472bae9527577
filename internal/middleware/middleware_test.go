package middleware

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/davrbek/folio/internal/auth"
	"github.com/davrbek/folio/internal/i18n"
	"github.com/davrbek/folio/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:mwtest?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM auth_tokens")
		db.Exec("DELETE FROM users")
	})
	return db
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	db := testDB(t)
	handler := BearerAuth(db)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["message"] == "" {
		t.Error("error response should carry a message")
	}
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	db := testDB(t)
	handler := BearerAuth(db)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestBearerAuth_ValidToken(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	ctx := t.Context()

	user, err := q.CreateUser(ctx, "admin@example.com", "Admin", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	raw, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := q.CreateAuthToken(ctx, user.ID, auth.HashToken(raw), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateAuthToken: %v", err)
	}

	var gotEmail string
	handler := BearerAuth(db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := GetUser(r); u != nil {
			gotEmail = u.Email
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotEmail != "admin@example.com" {
		t.Errorf("context user = %q, want admin@example.com", gotEmail)
	}
}

func TestBearerAuth_ExpiredToken(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	ctx := t.Context()

	user, err := q.CreateUser(ctx, "admin@example.com", "Admin", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	raw, _ := auth.GenerateToken()
	if _, err := q.CreateAuthToken(ctx, user.ID, auth.HashToken(raw), time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("CreateAuthToken: %v", err)
	}

	handler := BearerAuth(db)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", rec.Code)
	}
}

func testResolver(t *testing.T) *i18n.Resolver {
	t.Helper()
	r, err := i18n.New(slog.Default())
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	return r
}

func TestLanguage_QueryParamSetsCookie(t *testing.T) {
	var got string
	handler := Language(testResolver(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLanguage(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=ru", nil))

	if got != "ru" {
		t.Errorf("language = %q, want ru", got)
	}
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == LanguageCookieName && c.Value == "ru" {
			found = true
		}
	}
	if !found {
		t.Error("language switch should set the preference cookie")
	}
}

func TestLanguage_CookieBeatsAcceptHeader(t *testing.T) {
	var got string
	handler := Language(testResolver(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLanguage(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: "en"})
	req.Header.Set("Accept-Language", "ru,uz;q=0.8")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "en" {
		t.Errorf("language = %q, want en (cookie preference)", got)
	}
}

func TestLanguage_AcceptHeaderFallback(t *testing.T) {
	var got string
	handler := Language(testResolver(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLanguage(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "ru" {
		t.Errorf("language = %q, want ru", got)
	}
}

func TestLanguage_UnsupportedDefaultsToUz(t *testing.T) {
	var got string
	handler := Language(testResolver(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLanguage(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/?lang=de", nil)
	req.Header.Set("Accept-Language", "de-DE")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "uz" {
		t.Errorf("language = %q, want uz default", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Middleware()(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited, got %d", statuses[2])
	}

	// A different IP has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("X-Real-IP", "203.0.113.8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client should not be limited, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(false)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("production responses should carry HSTS")
	}

	devRec := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler()).ServeHTTP(devRec, httptest.NewRequest(http.MethodGet, "/", nil))
	if devRec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("development responses should not carry HSTS")
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	handler := Timeout(20 * time.Millisecond)(slow)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	fastRec := httptest.NewRecorder()
	Timeout(time.Second)(okHandler()).ServeHTTP(fastRec, httptest.NewRequest(http.MethodGet, "/", nil))
	if fastRec.Code != http.StatusOK {
		t.Errorf("fast handler status = %d, want 200", fastRec.Code)
	}
}
