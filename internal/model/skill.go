package model

import "time"

// Skill categories
const (
	SkillCategoryFrontend = "frontend"
	SkillCategoryBackend  = "backend"
	SkillCategoryTooling  = "tooling"
	SkillCategoryOther    = "other"
)

// Skill represents a single skill shown on the public site.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Level     int64     `json:"level"` // 0-100
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
