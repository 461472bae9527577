package store

import (
	"context"
	"time"

	"github.com/davrbek/folio/internal/model"
)

// HasLiked reports whether the viewer has liked the article.
func (q *Queries) HasLiked(ctx context.Context, articleID int64, viewerID string) (bool, error) {
	n, err := q.count(ctx,
		`SELECT COUNT(*) FROM article_likes WHERE article_id = ? AND viewer_id = ?`,
		articleID, viewerID)
	return n > 0, err
}

// ToggleLike flips the viewer's like for an article and synchronizes the
// cached like_count from the likes table. The server is authoritative for
// both the liked flag and the count. Returns the new state.
func (q *Queries) ToggleLike(ctx context.Context, articleID int64, viewerID string) (liked bool, likeCount int64, err error) {
	liked, err = q.HasLiked(ctx, articleID, viewerID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		_, err = q.db.ExecContext(ctx,
			`DELETE FROM article_likes WHERE article_id = ? AND viewer_id = ?`,
			articleID, viewerID)
	} else {
		_, err = q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_likes (article_id, viewer_id, created_at) VALUES (?, ?, ?)`,
			articleID, viewerID, time.Now())
	}
	if err != nil {
		return false, 0, err
	}

	_, err = q.db.ExecContext(ctx, `
		UPDATE articles
		SET like_count = (SELECT COUNT(*) FROM article_likes WHERE article_id = ?)
		WHERE id = ?`, articleID, articleID)
	if err != nil {
		return false, 0, err
	}

	likeCount, err = q.count(ctx,
		`SELECT like_count FROM articles WHERE id = ?`, articleID)
	return !liked, likeCount, err
}

// CreateVisit records an article view.
func (q *Queries) CreateVisit(ctx context.Context, v model.Visit) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO visits (article_id, viewer_id, country, browser, os, device, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ArticleID, v.ViewerID, v.Country, v.Browser, v.OS, v.Device, time.Now())
	return err
}

// CountVisits counts recorded views for an article.
func (q *Queries) CountVisits(ctx context.Context, articleID int64) (int64, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM visits WHERE article_id = ?`, articleID)
}
