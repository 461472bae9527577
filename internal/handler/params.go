// Package handler holds helpers shared by the HTTP handler packages.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Pagination defaults for list endpoints.
const (
	DefaultPage    = 1
	DefaultPerPage = 5
	MaxPerPage     = 50
)

// ParseIDParam parses the {id} URL parameter as a positive int64.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}

// ParsePageParam parses the ?page query parameter, defaulting to the first
// page and clamping invalid values.
func ParsePageParam(r *http.Request) int64 {
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

// ParsePerPageParam parses the ?limit query parameter, defaulting to
// DefaultPerPage and clamping to MaxPerPage.
func ParsePerPageParam(r *http.Request) int64 {
	perPage, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || perPage < 1 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// TotalPages computes the page count for a total at the given page size.
func TotalPages(total, perPage int64) int64 {
	if perPage < 1 {
		return 0
	}
	pages := (total + perPage - 1) / perPage
	if pages < 0 {
		return 0
	}
	return pages
}
