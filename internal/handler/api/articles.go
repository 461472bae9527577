package api

import (
	"net/http"
	"strings"

	"github.com/davrbek/folio/internal/handler"
	"github.com/davrbek/folio/internal/markdown"
	"github.com/davrbek/folio/internal/middleware"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/session"
	"github.com/davrbek/folio/internal/store"
	"github.com/davrbek/folio/internal/util"
)

// maxCommentLength bounds visitor comment bodies.
const maxCommentLength = 2000

// articleResponse decorates an article with derived fields for the public
// API. Localized fields marshal as full per-language maps; clients resolve
// them with the language they display.
type articleResponse struct {
	model.Article
	ReadingTime int    `json:"reading_time"`
	ContentHTML string `json:"content_html,omitempty"`
	Liked       *bool  `json:"liked,omitempty"`
}

func (h *Handler) articleListItem(a model.Article, lang string) articleResponse {
	return articleResponse{
		Article:     a,
		ReadingTime: markdown.ReadingTime(a.Content.In(lang)),
	}
}

// ListArticles handles GET /api/articles. Supports ?page, ?limit and ?tag.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLanguage(r)
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))

	total, err := h.queries.CountPublishedArticles(ctx, tag)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading articles", err)
		return
	}
	limit, offset, pagination := paginate(r, total)

	articles, err := h.queries.ListPublishedArticles(ctx, store.ListPublishedArticlesParams{
		Tag:    tag,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading articles", err)
		return
	}

	items := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		items = append(items, h.articleListItem(a, lang))
	}
	writeList(w, items, pagination)
}

// GetArticle handles GET /api/articles/{id}: article detail with approved
// comments, rendered HTML for the active language and the viewer's like
// state.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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
	if !article.IsPublished() {
		writeMessage(w, http.StatusNotFound, "article not found")
		return
	}

	article.Comments, err = h.queries.ListApprovedComments(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading comments", err)
		return
	}

	lang := middleware.GetLanguage(r)
	html, err := markdown.Render(article.Content.In(lang))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "rendering article", err)
		return
	}

	viewerID := session.ViewerID(ctx, h.sessions)
	liked, err := h.queries.HasLiked(ctx, id, viewerID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading article", err)
		return
	}

	resp := h.articleListItem(article, lang)
	resp.ContentHTML = html
	resp.Liked = &liked
	writeData(w, resp)
}

// LikeStatus handles GET /api/articles/{id}/like-status for the calling
// viewer.
func (h *Handler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	viewerID := session.ViewerID(r.Context(), h.sessions)
	liked, err := h.queries.HasLiked(r.Context(), id, viewerID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading like status", err)
		return
	}
	writeData(w, map[string]bool{"liked": liked})
}

// ToggleLike handles PATCH /api/articles/{id}/like. The returned count is
// recomputed from the likes table, so concurrent toggles settle on the
// server's value.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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
	if !article.IsPublished() {
		writeMessage(w, http.StatusNotFound, "article not found")
		return
	}

	viewerID := session.ViewerID(ctx, h.sessions)
	liked, likeCount, err := h.queries.ToggleLike(ctx, id, viewerID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "toggling like", err)
		return
	}
	writeData(w, map[string]any{"liked": liked, "like_count": likeCount})
}

// RecordView handles PATCH /api/articles/{id}/view: bumps the view counter
// and records a visit row. Analytics failures are logged, never surfaced.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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
	if !article.IsPublished() {
		writeMessage(w, http.StatusNotFound, "article not found")
		return
	}

	if err := h.queries.IncrementArticleViews(ctx, id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "recording view", err)
		return
	}

	info := util.ParseUserAgent(r.UserAgent())
	visit := model.Visit{
		ArticleID: id,
		ViewerID:  session.ViewerID(ctx, h.sessions),
		Country:   h.geo.Country(r.RemoteAddr),
		Browser:   info.Browser,
		OS:        info.OS,
		Device:    info.Device,
	}
	if err := h.queries.CreateVisit(ctx, visit); err != nil {
		h.logger.Warn("recording visit", "error", err, "source", "api")
	}

	w.WriteHeader(http.StatusNoContent)
}

type commentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content"`
}

// CreateComment handles POST /api/articles/{id}/comments. New comments wait
// for moderation.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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
	if !article.IsPublished() {
		writeMessage(w, http.StatusNotFound, "article not found")
		return
	}
	if !article.CommentsEnabled {
		writeMessage(w, http.StatusForbidden, "comments are disabled for this article")
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Content = strings.TrimSpace(req.Content)
	switch {
	case req.Name == "":
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	case req.Content == "":
		writeMessage(w, http.StatusBadRequest, "comment text is required")
		return
	case len(req.Content) > maxCommentLength:
		writeMessage(w, http.StatusBadRequest, "comment is too long")
		return
	}

	comment, err := h.queries.CreateComment(ctx, store.CreateCommentParams{
		ArticleID: id,
		Name:      req.Name,
		Email:     req.Email,
		Content:   req.Content,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving comment", err)
		return
	}
	writeCreated(w, comment)
}
