package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/davrbek/folio/internal/model"
)

const articleColumns = `id, title, content, image, status, like_count, views,
	comments_enabled, created_at, updated_at, published_at, scheduled_at`

func scanArticle(row interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Image, &a.Status, &a.LikeCount,
		&a.Views, &a.CommentsEnabled, &a.CreatedAt, &a.UpdatedAt,
		&a.PublishedAt, &a.ScheduledAt,
	)
	return a, err
}

func (q *Queries) scanArticles(rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()
	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// attachTags loads tags for every article in the slice.
func (q *Queries) attachTags(ctx context.Context, articles []model.Article) error {
	for i := range articles {
		tags, err := q.ListArticleTags(ctx, articles[i].ID)
		if err != nil {
			return err
		}
		articles[i].Tags = tags
	}
	return nil
}

// CreateArticleParams holds fields for creating an article.
type CreateArticleParams struct {
	Title           model.LocalizedText
	Content         model.LocalizedText
	Image           string
	Status          string
	CommentsEnabled bool
	ScheduledAt     sql.NullTime
}

// CreateArticle inserts an article and returns it (without tags).
func (q *Queries) CreateArticle(ctx context.Context, p CreateArticleParams) (model.Article, error) {
	now := time.Now()
	var publishedAt sql.NullTime
	if p.Status == model.ArticleStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO articles (title, content, image, status, comments_enabled,
			created_at, updated_at, published_at, scheduled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Content, p.Image, p.Status, p.CommentsEnabled,
		now, now, publishedAt, p.ScheduledAt,
	)
	if err != nil {
		return model.Article{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Article{}, err
	}
	return q.GetArticleByID(ctx, id)
}

// UpdateArticleParams holds fields for updating an article.
type UpdateArticleParams struct {
	ID              int64
	Title           model.LocalizedText
	Content         model.LocalizedText
	Image           string
	CommentsEnabled bool
	ScheduledAt     sql.NullTime
}

// UpdateArticle updates the editable fields of an article.
func (q *Queries) UpdateArticle(ctx context.Context, p UpdateArticleParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, content = ?, image = ?, comments_enabled = ?,
			scheduled_at = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Content, p.Image, p.CommentsEnabled, p.ScheduledAt,
		time.Now(), p.ID,
	)
	return err
}

// UpdateArticleStatus sets the publish status, stamping published_at on the
// first transition to published.
func (q *Queries) UpdateArticleStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET status = ?,
			published_at = CASE WHEN ? = 'published' AND published_at IS NULL
				THEN ? ELSE published_at END,
			updated_at = ?
		WHERE id = ?`,
		status, status, time.Now(), time.Now(), id,
	)
	return err
}

// DeleteArticle removes an article; tags, comments, likes and visits cascade.
func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}

// GetArticleByID returns a single article with its tags.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (model.Article, error) {
	a, err := scanArticle(q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
	if err != nil {
		return model.Article{}, err
	}
	a.Tags, err = q.ListArticleTags(ctx, a.ID)
	return a, err
}

// ListPublishedArticlesParams pages through published articles.
type ListPublishedArticlesParams struct {
	Tag    string // empty for no filter
	Limit  int64
	Offset int64
}

// ListPublishedArticles returns published articles newest first, optionally
// filtered by tag, with tags attached.
func (q *Queries) ListPublishedArticles(ctx context.Context, p ListPublishedArticlesParams) ([]model.Article, error) {
	var rows *sql.Rows
	var err error
	if p.Tag != "" {
		rows, err = q.db.QueryContext(ctx, `
			SELECT `+articleColumns+` FROM articles
			WHERE status = 'published'
			  AND id IN (SELECT article_id FROM article_tags WHERE tag = ?)
			ORDER BY published_at DESC, id DESC
			LIMIT ? OFFSET ?`, p.Tag, p.Limit, p.Offset)
	} else {
		rows, err = q.db.QueryContext(ctx, `
			SELECT `+articleColumns+` FROM articles
			WHERE status = 'published'
			ORDER BY published_at DESC, id DESC
			LIMIT ? OFFSET ?`, p.Limit, p.Offset)
	}
	if err != nil {
		return nil, err
	}
	articles, err := q.scanArticles(rows)
	if err != nil {
		return nil, err
	}
	return articles, q.attachTags(ctx, articles)
}

// CountPublishedArticles counts published articles, optionally by tag.
func (q *Queries) CountPublishedArticles(ctx context.Context, tag string) (int64, error) {
	if tag != "" {
		return q.count(ctx, `
			SELECT COUNT(*) FROM articles
			WHERE status = 'published'
			  AND id IN (SELECT article_id FROM article_tags WHERE tag = ?)`, tag)
	}
	return q.count(ctx, `SELECT COUNT(*) FROM articles WHERE status = 'published'`)
}

// ListArticles returns all articles for the admin panel, newest first.
func (q *Queries) ListArticles(ctx context.Context, limit, offset int64) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	articles, err := q.scanArticles(rows)
	if err != nil {
		return nil, err
	}
	return articles, q.attachTags(ctx, articles)
}

// CountArticles counts all articles.
func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM articles`)
}

// ListArticleTags returns the tags of an article in alphabetical order.
func (q *Queries) ListArticleTags(ctx context.Context, articleID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT tag FROM article_tags WHERE article_id = ? ORDER BY tag`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// ReplaceArticleTags replaces the full tag set of an article.
func (q *Queries) ReplaceArticleTags(ctx context.Context, articleID int64, tags []string) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM article_tags WHERE article_id = ?`, articleID); err != nil {
		return err
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_tags (article_id, tag) VALUES (?, ?)`,
			articleID, tag); err != nil {
			return err
		}
	}
	return nil
}

// IncrementArticleViews bumps the view counter.
func (q *Queries) IncrementArticleViews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE articles SET views = views + 1 WHERE id = ?`, id)
	return err
}

// PublishDueArticles publishes drafts whose scheduled time has passed.
// Returns the number of articles published.
func (q *Queries) PublishDueArticles(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET status = 'published', published_at = ?, scheduled_at = NULL, updated_at = ?
		WHERE status = 'draft' AND scheduled_at IS NOT NULL AND scheduled_at <= ?`,
		now, now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
