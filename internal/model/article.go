package model

import (
	"database/sql"
	"time"
)

// Article statuses
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article represents a blog article.
type Article struct {
	ID              int64         `json:"id"`
	Title           LocalizedText `json:"title"`
	Content         LocalizedText `json:"content"`
	Image           string        `json:"image,omitempty"`
	Tags            []string      `json:"tags"`
	Status          string        `json:"status"`
	LikeCount       int64         `json:"like_count"`
	Views           int64         `json:"views"`
	CommentsEnabled bool          `json:"comments_enabled"`
	Comments        []Comment     `json:"comments,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	PublishedAt     sql.NullTime  `json:"-"`
	ScheduledAt     sql.NullTime  `json:"-"`
}

// IsPublished returns true if the article is published.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// IsDraft returns true if the article is a draft.
func (a *Article) IsDraft() bool {
	return a.Status == ArticleStatusDraft
}

// HasTag reports whether the article carries the given tag.
func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
