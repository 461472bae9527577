package model

import "time"

// Comment represents a visitor comment on an article. Comments start
// unapproved and become visible once an admin approves them.
type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"article_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}
