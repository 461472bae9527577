package model

import "time"

// Project represents a portfolio project entry.
type Project struct {
	ID          int64         `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Image       string        `json:"image,omitempty"`
	DemoURL     string        `json:"demo_url,omitempty"`
	SourceURL   string        `json:"source_url,omitempty"`
	Tags        []string      `json:"tags"`
	Featured    bool          `json:"featured"`
	Position    int64         `json:"position"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
