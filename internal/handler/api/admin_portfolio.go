package api

import (
	"database/sql"
	"net/http"
	"regexp"
	"strings"

	"github.com/davrbek/folio/internal/handler"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
)

type projectRequest struct {
	Title       model.LocalizedText `json:"title"`
	Description model.LocalizedText `json:"description"`
	Image       string              `json:"image"`
	DemoURL     string              `json:"demo_url"`
	SourceURL   string              `json:"source_url"`
	Tags        []string            `json:"tags"`
	Featured    bool                `json:"featured"`
	Position    int64               `json:"position"`
}

// AdminCreateProject handles POST /api/admin/projects.
func (h *Handler) AdminCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title.IsZero() {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}

	project, err := h.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		DemoURL:     req.DemoURL,
		SourceURL:   req.SourceURL,
		Featured:    req.Featured,
		Position:    req.Position,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "creating project", err)
		return
	}
	if err := h.queries.ReplaceProjectTags(ctx, project.ID, normalizeTags(req.Tags)); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving tags", err)
		return
	}
	project.Tags, _ = h.queries.ListProjectTags(ctx, project.ID)
	writeCreated(w, project)
}

// AdminUpdateProject handles PUT /api/admin/projects/{id}.
func (h *Handler) AdminUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetProjectByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "project")
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title.IsZero() {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := h.queries.UpdateProject(ctx, store.UpdateProjectParams{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		DemoURL:     req.DemoURL,
		SourceURL:   req.SourceURL,
		Featured:    req.Featured,
		Position:    req.Position,
	}); err != nil {
		h.writeError(w, http.StatusInternalServerError, "updating project", err)
		return
	}
	if err := h.queries.ReplaceProjectTags(ctx, id, normalizeTags(req.Tags)); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving tags", err)
		return
	}

	project, err := h.queries.GetProjectByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading project", err)
		return
	}
	writeData(w, project)
}

// AdminDeleteProject handles DELETE /api/admin/projects/{id}.
func (h *Handler) AdminDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetProjectByID(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "project")
		return
	}
	if err := h.queries.DeleteProject(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting project", err)
		return
	}
	writeMessage(w, http.StatusOK, "project deleted")
}

type skillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int64  `json:"level"`
	Position int64  `json:"position"`
}

func (req *skillRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Level < 0 || req.Level > 100 {
		return "level must be between 0 and 100"
	}
	if req.Category == "" {
		req.Category = model.SkillCategoryOther
	}
	return ""
}

// AdminCreateSkill handles POST /api/admin/skills.
func (h *Handler) AdminCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if problem := req.validate(); problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	skill, err := h.queries.CreateSkill(r.Context(), store.CreateSkillParams{
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
		Position: req.Position,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "creating skill", err)
		return
	}
	writeCreated(w, skill)
}

// AdminUpdateSkill handles PUT /api/admin/skills/{id}.
func (h *Handler) AdminUpdateSkill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetSkillByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "skill")
		return
	}

	var req skillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if problem := req.validate(); problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	if err := h.queries.UpdateSkill(ctx, model.Skill{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
		Position: req.Position,
	}); err != nil {
		h.writeError(w, http.StatusInternalServerError, "updating skill", err)
		return
	}
	skill, err := h.queries.GetSkillByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading skill", err)
		return
	}
	writeData(w, skill)
}

// AdminDeleteSkill handles DELETE /api/admin/skills/{id}.
func (h *Handler) AdminDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetSkillByID(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "skill")
		return
	}
	if err := h.queries.DeleteSkill(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting skill", err)
		return
	}
	writeMessage(w, http.StatusOK, "skill deleted")
}

// yearMonth matches the YYYY-MM period format used by experiences.
var yearMonth = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type experienceRequest struct {
	Role        model.LocalizedText `json:"role"`
	Company     model.LocalizedText `json:"company"`
	Description model.LocalizedText `json:"description"`
	Location    string              `json:"location"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Position    int64               `json:"position"`
}

func (req *experienceRequest) validate() (sql.NullString, string) {
	if req.Role.IsZero() {
		return sql.NullString{}, "role is required"
	}
	if req.Company.IsZero() {
		return sql.NullString{}, "company is required"
	}
	if !yearMonth.MatchString(req.StartDate) {
		return sql.NullString{}, "start_date must be YYYY-MM"
	}
	var endDate sql.NullString
	if req.EndDate != "" {
		if !yearMonth.MatchString(req.EndDate) {
			return sql.NullString{}, "end_date must be YYYY-MM or empty for a current position"
		}
		endDate = sql.NullString{String: req.EndDate, Valid: true}
	}
	return endDate, ""
}

// AdminCreateExperience handles POST /api/admin/experiences.
func (h *Handler) AdminCreateExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	endDate, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	experience, err := h.queries.CreateExperience(r.Context(), store.CreateExperienceParams{
		Role:        req.Role,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     endDate,
		Position:    req.Position,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "creating experience", err)
		return
	}
	writeCreated(w, newExperienceResponse(experience))
}

// AdminUpdateExperience handles PUT /api/admin/experiences/{id}.
func (h *Handler) AdminUpdateExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetExperienceByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "experience")
		return
	}

	var req experienceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	endDate, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	if err := h.queries.UpdateExperience(ctx, store.UpdateExperienceParams{
		ID:          id,
		Role:        req.Role,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     endDate,
		Position:    req.Position,
	}); err != nil {
		h.writeError(w, http.StatusInternalServerError, "updating experience", err)
		return
	}
	experience, err := h.queries.GetExperienceByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading experience", err)
		return
	}
	writeData(w, newExperienceResponse(experience))
}

// AdminDeleteExperience handles DELETE /api/admin/experiences/{id}.
func (h *Handler) AdminDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetExperienceByID(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "experience")
		return
	}
	if err := h.queries.DeleteExperience(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting experience", err)
		return
	}
	writeMessage(w, http.StatusOK, "experience deleted")
}
