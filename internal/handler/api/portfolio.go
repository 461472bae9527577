package api

import (
	"net/http"
	"strings"

	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
	"github.com/davrbek/folio/internal/util"
)

const (
	maxMessageLength = 5000
	maxNameLength    = 200
)

// experienceResponse exposes the nullable end date as a plain field plus a
// convenience flag for the current position.
type experienceResponse struct {
	model.Experience
	EndDate   string `json:"end_date,omitempty"`
	IsCurrent bool   `json:"is_current"`
}

func newExperienceResponse(e model.Experience) experienceResponse {
	return experienceResponse{
		Experience: e,
		EndDate:    e.EndDate.String,
		IsCurrent:  e.IsCurrent(),
	}
}

// ListProjects handles GET /api/projects. Featured projects come first.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListProjects(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading projects", err)
		return
	}
	writeData(w, projects)
}

// ListSkills handles GET /api/skills, grouped by category order.
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.queries.ListSkills(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading skills", err)
		return
	}
	writeData(w, skills)
}

// ListExperiences handles GET /api/experiences.
func (h *Handler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.queries.ListExperiences(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading experiences", err)
		return
	}
	items := make([]experienceResponse, 0, len(experiences))
	for _, e := range experiences {
		items = append(items, newExperienceResponse(e))
	}
	writeData(w, items)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// Contact handles POST /api/contact.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Content = strings.TrimSpace(req.Content)
	switch {
	case req.Name == "" || len(req.Name) > maxNameLength:
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		writeMessage(w, http.StatusBadRequest, "a valid email is required")
		return
	case req.Content == "":
		writeMessage(w, http.StatusBadRequest, "message text is required")
		return
	case len(req.Content) > maxMessageLength:
		writeMessage(w, http.StatusBadRequest, "message is too long")
		return
	}

	info := util.ParseUserAgent(r.UserAgent())
	msg, err := h.queries.CreateMessage(r.Context(), store.CreateMessageParams{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Content:   req.Content,
		Country:   h.geo.Country(r.RemoteAddr),
		UserAgent: strings.Join(nonEmpty(info.Browser, info.OS, info.Device), " / "),
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving message", err)
		return
	}
	writeCreated(w, msg)
}

// PublicSettings handles GET /api/settings: public settings keyed by name.
// Translation overrides appear as localized JSON values; clients merge them
// into their dictionaries.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.publicSettings(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading settings", err)
		return
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	writeData(w, out)
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
