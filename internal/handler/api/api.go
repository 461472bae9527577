// Package api implements the public and admin JSON APIs. Every response is
// wrapped in the same envelope: {"data": ..., "pagination": ...,
// "message": ...}.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/davrbek/folio/internal/cache"
	"github.com/davrbek/folio/internal/geoip"
	"github.com/davrbek/folio/internal/handler"
	"github.com/davrbek/folio/internal/i18n"
	"github.com/davrbek/folio/internal/imaging"
	"github.com/davrbek/folio/internal/model"
	"github.com/davrbek/folio/internal/store"
	"github.com/davrbek/folio/internal/translate"
)

// maxBodySize limits JSON request bodies.
const maxBodySize = 1 << 20 // 1 MB

// Pagination describes the position of a list response within the full
// result set.
type Pagination struct {
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Response is the uniform JSON envelope.
type Response struct {
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Handler carries the dependencies of all API endpoints.
type Handler struct {
	db         *sql.DB
	queries    *store.Queries
	resolver   *i18n.Resolver
	sessions   *scs.SessionManager
	settings   *cache.SettingsCache
	geo        *geoip.Lookup
	translator *translate.Translator
	processor  *imaging.Processor
	logger     *slog.Logger
}

// New creates the API handler.
func New(
	db *sql.DB,
	resolver *i18n.Resolver,
	sessions *scs.SessionManager,
	settings *cache.SettingsCache,
	geo *geoip.Lookup,
	translator *translate.Translator,
	processor *imaging.Processor,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		db:         db,
		queries:    store.New(db),
		resolver:   resolver,
		sessions:   sessions,
		settings:   settings,
		geo:        geo,
		translator: translator,
		processor:  processor,
		logger:     logger,
	}
}

// writeJSON writes the envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeData writes a 200 envelope holding only data.
func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Data: data})
}

// writeList writes a 200 envelope with data and pagination.
func writeList(w http.ResponseWriter, data any, p Pagination) {
	writeJSON(w, http.StatusOK, Response{Data: data, Pagination: &p})
}

// writeCreated writes a 201 envelope holding data.
func writeCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Data: data})
}

// writeMessage writes an envelope carrying only a human-readable message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Message: message})
}

// writeError logs server-side failures and hides their details from clients.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil && status >= 500 {
		h.logger.Error(message, "error", err, "source", "api")
	}
	writeMessage(w, status, message)
}

// notFoundOr500 maps sql.ErrNoRows to 404 and anything else to 500.
func (h *Handler) notFoundOr500(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, sql.ErrNoRows) {
		writeMessage(w, http.StatusNotFound, what+" not found")
		return
	}
	h.writeError(w, http.StatusInternalServerError, "loading "+what, err)
}

// decodeJSON reads a size-limited JSON body into dst, rejecting unknown
// fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// paginate computes limit/offset from the request and wraps the total into
// a Pagination block.
func paginate(r *http.Request, total int64) (limit, offset int64, p Pagination) {
	page := handler.ParsePageParam(r)
	perPage := handler.ParsePerPageParam(r)
	return perPage, (page - 1) * perPage, Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: handler.TotalPages(total, perPage),
	}
}

// publicSettings returns the public settings, going through the cache.
func (h *Handler) publicSettings(ctx context.Context) ([]model.Setting, error) {
	if settings, err := h.settings.Get(ctx); err == nil {
		return settings, nil
	}
	settings, err := h.queries.ListPublicSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.settings.Set(ctx, settings); err != nil {
		h.logger.Warn("caching settings", "error", err, "source", "api")
	}
	return settings, nil
}

// LoadOverrides primes the resolver's translation overrides from the
// database. Called once at startup before the server accepts traffic.
func (h *Handler) LoadOverrides(ctx context.Context) error {
	return h.reloadOverrides(ctx)
}

// reloadOverrides rebuilds the resolver's dynamic dictionary from the
// translation settings and drops the cached public settings. Called after
// any settings mutation.
func (h *Handler) reloadOverrides(ctx context.Context) error {
	translations, err := h.queries.ListSettingsByGroup(ctx, model.SettingGroupTranslations)
	if err != nil {
		return err
	}
	h.resolver.SetOverrides(i18n.OverridesFromSettings(translations))
	if err := h.settings.Invalidate(ctx); err != nil {
		h.logger.Warn("invalidating settings cache", "error", err, "source", "api")
	}
	return nil
}
