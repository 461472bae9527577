package store

import (
	"context"
	"time"

	"github.com/davrbek/folio/internal/model"
)

const messageColumns = `id, name, email, subject, content, country, user_agent, is_read, created_at`

func scanMessage(row interface{ Scan(...any) error }) (model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Content,
		&m.Country, &m.UserAgent, &m.IsRead, &m.CreatedAt)
	return m, err
}

// CreateMessageParams holds fields for a contact-form submission.
type CreateMessageParams struct {
	Name      string
	Email     string
	Subject   string
	Content   string
	Country   string
	UserAgent string
}

// CreateMessage stores a contact-form submission and returns it.
func (q *Queries) CreateMessage(ctx context.Context, p CreateMessageParams) (model.Message, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO messages (name, email, subject, content, country, user_agent, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		p.Name, p.Email, p.Subject, p.Content, p.Country, p.UserAgent, now,
	)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{
		ID:        id,
		Name:      p.Name,
		Email:     p.Email,
		Subject:   p.Subject,
		Content:   p.Content,
		Country:   p.Country,
		UserAgent: p.UserAgent,
		CreatedAt: now,
	}, nil
}

// GetMessageByID returns a single message.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (model.Message, error) {
	return scanMessage(q.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
}

// ListMessages returns messages for the admin panel, unread first,
// newest first.
func (q *Queries) ListMessages(ctx context.Context, limit, offset int64) ([]model.Message, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		ORDER BY is_read ASC, created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CountMessages counts all messages.
func (q *Queries) CountMessages(ctx context.Context) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM messages`)
}

// CountUnreadMessages counts unread messages.
func (q *Queries) CountUnreadMessages(ctx context.Context) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM messages WHERE is_read = 0`)
}

// MarkMessageRead marks a message as read.
func (q *Queries) MarkMessageRead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id)
	return err
}

// DeleteMessage removes a message.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	return err
}
