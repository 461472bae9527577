package logging

import (
	"database/sql"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:logtest?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestEventLogHandler_MirrorsWarnAndError(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(discard{}, nil), db))

	logger.Info("just info")
	logger.Warn("something slow", "source", "scheduler")
	logger.Error("something broke")

	events, err := store.New(db).ListEvents(t.Context(), 10, 0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (info must not be mirrored)", len(events))
	}

	byMessage := map[string]string{}
	bySource := map[string]string{}
	for _, e := range events {
		byMessage[e.Message] = e.Level
		bySource[e.Message] = e.Source
	}
	if byMessage["something slow"] != model.EventLevelWarning {
		t.Errorf("warn level = %q", byMessage["something slow"])
	}
	if byMessage["something broke"] != model.EventLevelError {
		t.Errorf("error level = %q", byMessage["something broke"])
	}
	if bySource["something slow"] != "scheduler" {
		t.Errorf("source = %q, want scheduler", bySource["something slow"])
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
