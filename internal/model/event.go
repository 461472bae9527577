package model

import "time"

// Event levels
const (
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event is an application event captured from the log stream for review in
// the admin panel.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
