package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/davrbek/folio/internal/cache"
	"github.com/davrbek/folio/internal/geoip"
	"github.com/davrbek/folio/internal/i18n"
	"github.com/davrbek/folio/internal/imaging"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/session"
	"github.com/davrbek/folio/internal/store"
	"github.com/davrbek/folio/internal/translate"
)

var testDBCounter atomic.Int64

// testServer bundles a fully wired API server with direct database access
// for fixtures and assertions.
type testServer struct {
	*httptest.Server
	db       *sql.DB
	queries  *store.Queries
	handler  *Handler
	resolver *i18n.Resolver
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared&_foreign_keys=on",
		testDBCounter.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver, err := i18n.New(logger)
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}

	mem := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { mem.Close() })

	geo, err := geoip.NewLookup("")
	if err != nil {
		t.Fatalf("geoip.NewLookup: %v", err)
	}

	uploads := t.TempDir()
	processor, err := imaging.NewProcessor(uploads)
	if err != nil {
		t.Fatalf("imaging.NewProcessor: %v", err)
	}

	h := New(
		db,
		resolver,
		session.New(db, true),
		cache.NewSettingsCache(mem, time.Minute),
		geo,
		translate.New("", ""),
		processor,
		logger,
	)

	srv := httptest.NewServer(h.Routes(RouterOptions{
		IsDev:            true,
		ContactPerMinute: 30,
		CommentPerMinute: 30,
		UploadsDir:       uploads,
	}))
	t.Cleanup(srv.Close)

	return &testServer{
		Server:   srv,
		db:       db,
		queries:  store.New(db),
		handler:  h,
		resolver: resolver,
	}
}

// client returns an HTTP client with a cookie jar so a viewer session
// persists across requests.
func (ts *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// doJSON issues a request with an optional JSON body and bearer token.
func (ts *testServer) doJSON(t *testing.T, client *http.Client, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// envelope mirrors the response wrapper for decoding in tests.
type envelope[T any] struct {
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination"`
	Message    string      `json:"message"`
}

// decodeEnvelope reads and closes the response body.
func decodeEnvelope[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	defer resp.Body.Close()
	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return env
}

// wantStatus fails the test with the response message when the status code
// is unexpected.
func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, strings.TrimSpace(string(raw)))
	}
}

// loginAdmin seeds the default admin user and returns a bearer token.
func (ts *testServer) loginAdmin(t *testing.T, client *http.Client) string {
	t.Helper()
	if err := store.Seed(t.Context(), ts.db, "", ""); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	resp := ts.doJSON(t, client, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    store.DefaultAdminEmail,
		"password": store.DefaultAdminPassword,
	})
	wantStatus(t, resp, http.StatusOK)
	env := decodeEnvelope[loginResponse](t, resp)
	if env.Data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return env.Data.Token
}

// newLocalized builds a three-language value from a base string.
func newLocalized(s string) model.LocalizedText {
	return model.NewLocalized(s, s+" en", s+" ru")
}

// seedArticle inserts a published article with the given tags.
func (ts *testServer) seedArticle(t *testing.T, title, content string, tags ...string) int64 {
	t.Helper()
	article, err := ts.queries.CreateArticle(t.Context(), store.CreateArticleParams{
		Title:           newLocalized(title),
		Content:         newLocalized(content),
		Status:          "published",
		CommentsEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if len(tags) > 0 {
		if err := ts.queries.ReplaceArticleTags(t.Context(), article.ID, tags); err != nil {
			t.Fatalf("ReplaceArticleTags: %v", err)
		}
	}
	return article.ID
}
