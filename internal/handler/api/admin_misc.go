package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/davrbek/folio/internal/handler"
	"github.com/davrbek/folio/internal/imaging"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
)

// AdminListComments handles GET /api/admin/comments: every comment across
// articles, unapproved first.
func (h *Handler) AdminListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.queries.CountComments(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading comments", err)
		return
	}
	limit, offset, pagination := paginate(r, total)

	comments, err := h.queries.ListComments(ctx, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading comments", err)
		return
	}
	writeList(w, comments, pagination)
}

// AdminApproveComment handles PATCH /api/admin/comments/{id}/approve.
func (h *Handler) AdminApproveComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetCommentByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "comment")
		return
	}
	if err := h.queries.ApproveComment(ctx, id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "approving comment", err)
		return
	}
	comment, err := h.queries.GetCommentByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading comment", err)
		return
	}
	writeData(w, comment)
}

// AdminDeleteComment handles DELETE /api/admin/comments/{id}.
func (h *Handler) AdminDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetCommentByID(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "comment")
		return
	}
	if err := h.queries.DeleteComment(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting comment", err)
		return
	}
	writeMessage(w, http.StatusOK, "comment deleted")
}

// AdminListMessages handles GET /api/admin/messages, unread first.
func (h *Handler) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.queries.CountMessages(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading messages", err)
		return
	}
	limit, offset, pagination := paginate(r, total)

	messages, err := h.queries.ListMessages(ctx, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading messages", err)
		return
	}
	writeList(w, messages, pagination)
}

// AdminMarkMessageRead handles PATCH /api/admin/messages/{id}/read.
func (h *Handler) AdminMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetMessageByID(ctx, id); err != nil {
		h.notFoundOr500(w, err, "message")
		return
	}
	if err := h.queries.MarkMessageRead(ctx, id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "updating message", err)
		return
	}
	msg, err := h.queries.GetMessageByID(ctx, id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading message", err)
		return
	}
	writeData(w, msg)
}

// AdminDeleteMessage handles DELETE /api/admin/messages/{id}.
func (h *Handler) AdminDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.queries.GetMessageByID(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "message")
		return
	}
	if err := h.queries.DeleteMessage(r.Context(), id); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting message", err)
		return
	}
	writeMessage(w, http.StatusOK, "message deleted")
}

// AdminListSettings handles GET /api/admin/settings: every setting
// including private ones.
func (h *Handler) AdminListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSettings(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading settings", err)
		return
	}
	writeData(w, settings)
}

type settingRequest struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Group  string `json:"group"`
	Public bool   `json:"public"`
}

// AdminUpdateSettings handles PUT /api/admin/settings: a bulk upsert. When
// translation-group settings change, the resolver's override dictionary is
// replaced wholesale and the settings cache invalidated.
func (h *Handler) AdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqs []settingRequest
	if err := decodeJSON(w, r, &reqs); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(reqs) == 0 {
		writeMessage(w, http.StatusBadRequest, "no settings provided")
		return
	}

	for _, req := range reqs {
		req.Key = strings.TrimSpace(req.Key)
		if req.Key == "" {
			writeMessage(w, http.StatusBadRequest, "setting key is required")
			return
		}
		if req.Group == "" {
			req.Group = model.SettingGroupGeneral
		}
		if err := h.queries.UpsertSetting(ctx, store.UpsertSettingParams{
			Key:    req.Key,
			Value:  req.Value,
			Group:  req.Group,
			Public: req.Public,
		}); err != nil {
			h.writeError(w, http.StatusInternalServerError, "saving settings", err)
			return
		}
	}

	if err := h.reloadOverrides(ctx); err != nil {
		h.writeError(w, http.StatusInternalServerError, "reloading translations", err)
		return
	}

	settings, err := h.queries.ListSettings(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading settings", err)
		return
	}
	writeData(w, settings)
}

// AdminDeleteSetting handles DELETE /api/admin/settings/{key}.
func (h *Handler) AdminDeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		writeMessage(w, http.StatusBadRequest, "setting key is required")
		return
	}
	if err := h.queries.DeleteSetting(ctx, key); err != nil {
		h.writeError(w, http.StatusInternalServerError, "deleting setting", err)
		return
	}
	if err := h.reloadOverrides(ctx); err != nil {
		h.writeError(w, http.StatusInternalServerError, "reloading translations", err)
		return
	}
	writeMessage(w, http.StatusOK, "setting deleted")
}

// AdminListEvents handles GET /api/admin/events: warn/error application
// events captured by the logging handler, newest first.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.queries.CountEvents(ctx)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading events", err)
		return
	}
	limit, offset, pagination := paginate(r, total)

	events, err := h.queries.ListEvents(ctx, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "loading events", err)
		return
	}
	writeList(w, events, pagination)
}

// AdminUploadMedia handles POST /api/admin/media: a multipart image upload
// processed into the uploads directory.
func (h *Handler) AdminUploadMedia(w http.ResponseWriter, r *http.Request) {
	file, header, err := readUploadedFile(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	result, err := h.processor.Process(file, header.Filename)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeCreated(w, result)
}

// readUploadedFile extracts the "file" part of a multipart upload.
func readUploadedFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, imaging.MaxUploadSize)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		return nil, nil, fmt.Errorf("parsing upload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing file field: %w", err)
	}
	return file, header, nil
}
