package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/davrbek/folio/internal/handler"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
	"github.com/davrbek/folio/internal/util"
)

type articleRequest struct {
	Title           model.LocalizedText `json:"title"`
	Content         model.LocalizedText `json:"content"`
	Image           string              `json:"image"`
	Tags            []string            `json:"tags"`
	Status          string              `json:"status"`
	CommentsEnabled bool                `json:"comments_enabled"`
	ScheduledAt     string              `json:"scheduled_at"`
}

func (req *articleRequest) validate() (sql.NullTime, string) {
	if req.Title.IsZero() {
		return sql.NullTime{}, "title is required"
	}
	if req.Content.IsZero() {
		return sql.NullTime{}, "content is required"
	}
	if req.Status != "" && req.Status != model.ArticleStatusDraft && req.Status != model.ArticleStatusPublished {
		return sql.NullTime{}, "status must be draft or published"
	}

	var scheduledAt sql.NullTime
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return sql.NullTime{}, "scheduled_at must be an RFC 3339 timestamp"
		}
		scheduledAt = sql.NullTime{Time: t, Valid: true}
	}
	return scheduledAt, ""
}

// normalizeTags slugifies tags and drops empties and duplicates.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		slug := util.Slugify(tag)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}

// AdminListArticles handles GET /api/admin/articles: all articles including
// drafts, newest first.
func (h *Handler) AdminListArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.queries.CountArticles(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading articles", err)
		return
	}
	limit, offset, pagination := paginate(r, total)

	articles, err := h.queries.ListArticles(ctx, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading articles", err)
		return
	}
	writeList(w, articles, pagination)
}

// AdminGetArticle handles GET /api/admin/articles/{id}. Drafts are visible
// here.
func (h *Handler) AdminGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	article, err := h.queries.GetArticleByID(r.Context(), id)
	if err != nil {
		h.notFoundOr500(w, err, "article")
		return
	}
	writeData(w, article)
}

// AdminCreateArticle handles POST /api/admin/articles.
func (h *Handler) AdminCreateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req articleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	scheduledAt, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}
	status := req.Status
	if status == "" {
		status = model.ArticleStatusDraft
	}

	article, err := h.queries.CreateArticle(ctx, store.CreateArticleParams{
		Title:           req.Title,
		Content:         req.Content,
		Image:           req.Image,
		Status:          status,
		CommentsEnabled: req.CommentsEnabled,
		ScheduledAt:     scheduledAt,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "creating article", err)
		return
	}
	if err := h.queries.ReplaceArticleTags(ctx, article.ID, normalizeTags(req.Tags)); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving tags", err)
		return
	}
	article.Tags, _ = h.queries.ListArticleTags(ctx, article.ID)
	writeCreated(w, article)
}

// AdminUpdateArticle handles PUT /api/admin/articles/{id}. Status changes
// go through the dedicated status endpoint.
func (h *Handler) AdminUpdateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetArticleByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "article")
		return
	}

	var req articleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	scheduledAt, problem := req.validate()
	if problem != "" {
		writeMessage(w, http.StatusBadRequest, problem)
		return
	}

	if err := h.queries.UpdateArticle(ctx, store.UpdateArticleParams{
		ID:              id,
		Title:           req.Title,
		Content:         req.Content,
		Image:           req.Image,
		CommentsEnabled: req.CommentsEnabled,
		ScheduledAt:     scheduledAt,
	}); err != nil {
		h.writeError(w, http.StatusInternalServerError, "updating article", err)
		return
	}
	if err := h.queries.ReplaceArticleTags(ctx, id, normalizeTags(req.Tags)); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving tags", err)
		return
	}

	article, err := h.queries.GetArticleByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading article", err)
		return
	}
	writeData(w, article)
}

type statusRequest struct {
	Status string `json:"status"`
}

// AdminUpdateArticleStatus handles PATCH /api/admin/articles/{id}/status.
// The first transition to published stamps published_at; republishing keeps
// the original timestamp.
func (h *Handler) AdminUpdateArticleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetArticleByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "article")
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status != model.ArticleStatusDraft && req.Status != model.ArticleStatusPublished {
		writeMessage(w, http.StatusBadRequest, "status must be draft or published")
		return
	}

	if err := h.queries.UpdateArticleStatus(ctx, id, req.Status); err != nil {
		h.writeError(w, http.StatusInternalServerError, "updating status", err)
		return
	}
	article, err := h.queries.GetArticleByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading article", err)
		return
	}
	writeData(w, article)
}

// AdminDeleteArticle handles DELETE /api/admin/articles/{id}.
func (h *Handler) AdminDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetArticleByID(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "article")
		return
	}
	if err := h.queries.DeleteArticle(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting article", err)
		return
	}
	writeMessage(w, http.StatusOK, "article deleted")
}

type translateRequest struct {
	SourceLang string `json:"source_lang"`
}

// AdminTranslateArticle handles POST /api/admin/articles/{id}/translate:
// machine-translates the title and content into the languages that are
// still empty.
func (h *Handler) AdminTranslateArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.translator.Enabled() {
		writeMessage(w, http.StatusServiceUnavailable, "translation is not configured")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	article, err := h.queries.GetArticleByID(ctx, id)
	if err != nil {
		h.notFoundOr500(w, err, "article")
		return
	}

	var req translateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	sourceLang := strings.ToLower(strings.TrimSpace(req.SourceLang))
	if sourceLang == "" {
		sourceLang = model.DefaultLanguage
	}

	title, err := h.translator.FillMissing(ctx, article.Title, sourceLang)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "translating title", err)
		return
	}
	content, err := h.translator.FillMissing(ctx, article.Content, sourceLang)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "translating content", err)
		return
	}

	if err := h.queries.UpdateArticle(ctx, store.UpdateArticleParams{
		ID:              id,
		Title:           title,
		Content:         content,
		Image:           article.Image,
		CommentsEnabled: article.CommentsEnabled,
		ScheduledAt:     article.ScheduledAt,
	}); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving translation", err)
		return
	}

	article, err = h.queries.GetArticleByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading article", err)
		return
	}
	writeData(w, article)
}
