// Package session manages anonymous viewer sessions backed by SQLite.
// A viewer gets a stable random id on first contact; likes and view
// deduplication key off that id without any account.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

const viewerIDKey = "viewer_id"

// New creates a session manager configured with the SQLite store. Viewer
// sessions are long-lived so likes survive browser restarts.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 365 * 24 * time.Hour
	sm.Cookie.Name = "folio_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}

// ViewerID returns the stable anonymous id for the current session,
// assigning one on first use.
func ViewerID(ctx context.Context, sm *scs.SessionManager) string {
	id := sm.GetString(ctx, viewerIDKey)
	if id == "" {
		id = uuid.NewString()
		sm.Put(ctx, viewerIDKey, id)
	}
	return id
}
