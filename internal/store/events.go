package store

import (
	"context"
	"time"

	"github.com/davrbek/folio/internal/model"
)

// InsertEvent records an application event. Used by the log handler, so it
// must never log through slog itself.
func (q *Queries) InsertEvent(ctx context.Context, level, source, message string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, source, message, created_at)
		VALUES (?, ?, ?, ?)`,
		level, source, message, time.Now())
	return err
}

// ListEvents returns recorded events, newest first.
func (q *Queries) ListEvents(ctx context.Context, limit, offset int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, source, message, created_at FROM events
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Source, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents counts recorded events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM events`)
}

// DeleteEventsBefore removes events older than the cutoff.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
