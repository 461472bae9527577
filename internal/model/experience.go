package model

import (
	"database/sql"
	"time"
)

// Experience represents a work-history entry. EndDate is null while the
// position is current.
type Experience struct {
	ID          int64          `json:"id"`
	Role        LocalizedText  `json:"role"`
	Company     LocalizedText  `json:"company"`
	Description LocalizedText  `json:"description"`
	Location    string         `json:"location,omitempty"`
	StartDate   string         `json:"start_date"` // YYYY-MM
	EndDate     sql.NullString `json:"-"`
	Position    int64          `json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsCurrent reports whether this is the present position.
func (e *Experience) IsCurrent() bool {
	return !e.EndDate.Valid || e.EndDate.String == ""
}
