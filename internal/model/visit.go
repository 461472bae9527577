package model

import "time"

// Visit records a single article view for best-effort analytics.
type Visit struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"article_id"`
	ViewerID  string    `json:"viewer_id"`
	Country   string    `json:"country,omitempty"`
	Browser   string    `json:"browser,omitempty"`
	OS        string    `json:"os,omitempty"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
