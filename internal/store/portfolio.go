package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/davrbek/folio/internal/model"
)

// ---------------------------------------------------------------------------
// Projects

const projectColumns = `id, title, description, image, demo_url, source_url,
	featured, position, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.DemoURL,
		&p.SourceURL, &p.Featured, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProjectParams holds fields for a new project.
type CreateProjectParams struct {
	Title       model.LocalizedText
	Description model.LocalizedText
	Image       string
	DemoURL     string
	SourceURL   string
	Featured    bool
	Position    int64
}

// CreateProject inserts a project and returns it.
func (q *Queries) CreateProject(ctx context.Context, p CreateProjectParams) (model.Project, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (title, description, image, demo_url, source_url,
			featured, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Image, p.DemoURL, p.SourceURL,
		p.Featured, p.Position, now, now,
	)
	if err != nil {
		return model.Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Project{}, err
	}
	return q.GetProjectByID(ctx, id)
}

// UpdateProjectParams holds fields for updating a project.
type UpdateProjectParams struct {
	ID          int64
	Title       model.LocalizedText
	Description model.LocalizedText
	Image       string
	DemoURL     string
	SourceURL   string
	Featured    bool
	Position    int64
}

// UpdateProject updates a project.
func (q *Queries) UpdateProject(ctx context.Context, p UpdateProjectParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, image = ?, demo_url = ?, source_url = ?,
			featured = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, p.Image, p.DemoURL, p.SourceURL,
		p.Featured, p.Position, time.Now(), p.ID,
	)
	return err
}

// DeleteProject removes a project.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

// GetProjectByID returns a single project with tags.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	p, err := scanProject(q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return model.Project{}, err
	}
	p.Tags, err = q.ListProjectTags(ctx, p.ID)
	return p, err
}

// ListProjects returns all projects, featured first, then by position.
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		ORDER BY featured DESC, position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Tags, err = q.ListProjectTags(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// ListProjectTags returns the tags of a project.
func (q *Queries) ListProjectTags(ctx context.Context, projectID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT tag FROM project_tags WHERE project_id = ? ORDER BY tag`, projectID)
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

// ReplaceProjectTags replaces the full tag set of a project.
func (q *Queries) ReplaceProjectTags(ctx context.Context, projectID int64, tags []string) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM project_tags WHERE project_id = ?`, projectID); err != nil {
		return err
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO project_tags (project_id, tag) VALUES (?, ?)`,
			projectID, tag); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Skills

const skillColumns = `id, name, category, level, position, created_at, updated_at`

func scanSkill(row interface{ Scan(...any) error }) (model.Skill, error) {
	var s model.Skill
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.Position,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSkillParams holds fields for a new skill.
type CreateSkillParams struct {
	Name     string
	Category string
	Level    int64
	Position int64
}

// CreateSkill inserts a skill and returns it.
func (q *Queries) CreateSkill(ctx context.Context, p CreateSkillParams) (model.Skill, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO skills (name, category, level, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Level, p.Position, now, now,
	)
	if err != nil {
		return model.Skill{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Skill{}, err
	}
	return q.GetSkillByID(ctx, id)
}

// UpdateSkill updates a skill.
func (q *Queries) UpdateSkill(ctx context.Context, s model.Skill) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE skills SET name = ?, category = ?, level = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Category, s.Level, s.Position, time.Now(), s.ID,
	)
	return err
}

// DeleteSkill removes a skill.
func (q *Queries) DeleteSkill(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	return err
}

// GetSkillByID returns a single skill.
func (q *Queries) GetSkillByID(ctx context.Context, id int64) (model.Skill, error) {
	return scanSkill(q.db.QueryRowContext(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE id = ?`, id))
}

// ListSkills returns all skills ordered by category then position.
func (q *Queries) ListSkills(ctx context.Context) ([]model.Skill, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+skillColumns+` FROM skills
		ORDER BY category ASC, position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var skills []model.Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// ---------------------------------------------------------------------------
// Experiences

const experienceColumns = `id, role, company, description, location,
	start_date, end_date, position, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (model.Experience, error) {
	var e model.Experience
	err := row.Scan(&e.ID, &e.Role, &e.Company, &e.Description, &e.Location,
		&e.StartDate, &e.EndDate, &e.Position, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateExperienceParams holds fields for a new experience entry.
type CreateExperienceParams struct {
	Role        model.LocalizedText
	Company     model.LocalizedText
	Description model.LocalizedText
	Location    string
	StartDate   string
	EndDate     sql.NullString
	Position    int64
}

// CreateExperience inserts an experience entry and returns it.
func (q *Queries) CreateExperience(ctx context.Context, p CreateExperienceParams) (model.Experience, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO experiences (role, company, description, location,
			start_date, end_date, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Role, p.Company, p.Description, p.Location,
		p.StartDate, p.EndDate, p.Position, now, now,
	)
	if err != nil {
		return model.Experience{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Experience{}, err
	}
	return q.GetExperienceByID(ctx, id)
}

// UpdateExperienceParams holds fields for updating an experience entry.
type UpdateExperienceParams struct {
	ID          int64
	Role        model.LocalizedText
	Company     model.LocalizedText
	Description model.LocalizedText
	Location    string
	StartDate   string
	EndDate     sql.NullString
	Position    int64
}

// UpdateExperience updates an experience entry.
func (q *Queries) UpdateExperience(ctx context.Context, p UpdateExperienceParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE experiences
		SET role = ?, company = ?, description = ?, location = ?,
			start_date = ?, end_date = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		p.Role, p.Company, p.Description, p.Location,
		p.StartDate, p.EndDate, p.Position, time.Now(), p.ID,
	)
	return err
}

// DeleteExperience removes an experience entry.
func (q *Queries) DeleteExperience(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = ?`, id)
	return err
}

// GetExperienceByID returns a single experience entry.
func (q *Queries) GetExperienceByID(ctx context.Context, id int64) (model.Experience, error) {
	return scanExperience(q.db.QueryRowContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE id = ?`, id))
}

// ListExperiences returns experience entries, most recent period first.
func (q *Queries) ListExperiences(ctx context.Context) ([]model.Experience, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+experienceColumns+` FROM experiences
		ORDER BY position ASC, start_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var experiences []model.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}
