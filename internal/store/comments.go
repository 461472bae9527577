package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/davrbek/folio/internal/model"
)

const commentColumns = `id, article_id, name, email, content, approved, created_at`

func scanComment(row interface{ Scan(...any) error }) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.ArticleID, &c.Name, &c.Email, &c.Content,
		&c.Approved, &c.CreatedAt)
	return c, err
}

func scanComments(rows *sql.Rows) ([]model.Comment, error) {
	defer rows.Close()
	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateCommentParams holds fields for a new comment.
type CreateCommentParams struct {
	ArticleID int64
	Name      string
	Email     string
	Content   string
}

// CreateComment inserts an unapproved comment and returns it.
func (q *Queries) CreateComment(ctx context.Context, p CreateCommentParams) (model.Comment, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO comments (article_id, name, email, content, approved, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		p.ArticleID, p.Name, p.Email, p.Content, now,
	)
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return model.Comment{
		ID:        id,
		ArticleID: p.ArticleID,
		Name:      p.Name,
		Email:     p.Email,
		Content:   p.Content,
		Approved:  false,
		CreatedAt: now,
	}, nil
}

// GetCommentByID returns a single comment.
func (q *Queries) GetCommentByID(ctx context.Context, id int64) (model.Comment, error) {
	return scanComment(q.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
}

// ListApprovedComments returns a published article's visible comments,
// newest first.
func (q *Queries) ListApprovedComments(ctx context.Context, articleID int64) ([]model.Comment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE article_id = ? AND approved = 1
		ORDER BY created_at DESC, id DESC`, articleID)
	if err != nil {
		return nil, err
	}
	return scanComments(rows)
}

// ListComments returns comments across all articles for moderation,
// unapproved first, newest first.
func (q *Queries) ListComments(ctx context.Context, limit, offset int64) ([]model.Comment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		ORDER BY approved ASC, created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanComments(rows)
}

// CountComments counts all comments.
func (q *Queries) CountComments(ctx context.Context) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM comments`)
}

// ApproveComment marks a comment as approved.
func (q *Queries) ApproveComment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE comments SET approved = 1 WHERE id = ?`, id)
	return err
}

// DeleteComment removes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return err
}
