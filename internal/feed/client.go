// Package feed implements a Go client for the public articles API: a thin
// HTTP client plus a controller that drives an infinite-scrolling article
// list with per-article like and comment state.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/davrbek/folio/internal/model"
)

// Article is a feed entry as served by the public API.
type Article struct {
	model.Article
	ReadingTime int    `json:"reading_time"`
	ContentHTML string `json:"content_html,omitempty"`
	Liked       *bool  `json:"liked,omitempty"`
}

// Pagination mirrors the server's pagination block.
type Pagination struct {
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
	Message    string          `json:"message"`
}

// APIError is a non-2xx response carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client talks to the public API. The viewer identity lives in a session
// cookie, so the client keeps a cookie jar.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL (scheme://host, no
// trailing slash required).
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: trimTrailingSlash(baseURL),
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// do issues a request and decodes the envelope. Non-2xx responses become
// *APIError with the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (*Pagination, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decoding response data: %w", err)
		}
	}
	return env.Pagination, nil
}

// ListArticles fetches one page of published articles.
func (c *Client) ListArticles(ctx context.Context, page, limit int64, tag string) ([]Article, Pagination, error) {
	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))
	q.Set("limit", strconv.FormatInt(limit, 10))
	if tag != "" {
		q.Set("tag", tag)
	}

	var articles []Article
	pagination, err := c.do(ctx, http.MethodGet, "/api/articles?"+q.Encode(), nil, &articles)
	if err != nil {
		return nil, Pagination{}, err
	}
	if pagination == nil {
		return nil, Pagination{}, fmt.Errorf("missing pagination block")
	}
	return articles, *pagination, nil
}

// GetArticle fetches the full article detail including comments.
func (c *Client) GetArticle(ctx context.Context, id int64) (Article, error) {
	var article Article
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d", id), nil, &article)
	return article, err
}

// LikeStatus reports whether this viewer has liked the article.
func (c *Client) LikeStatus(ctx context.Context, id int64) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d/like-status", id), nil, &out)
	return out.Liked, err
}

// ToggleLike flips the viewer's like and returns the server's new state.
func (c *Client) ToggleLike(ctx context.Context, id int64) (liked bool, likeCount int64, err error) {
	var out struct {
		Liked     bool  `json:"liked"`
		LikeCount int64 `json:"like_count"`
	}
	_, err = c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/articles/%d/like", id), nil, &out)
	return out.Liked, out.LikeCount, err
}

// RecordView fires the view-increment side effect.
func (c *Client) RecordView(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/articles/%d/view", id), nil, nil)
	return err
}

// SubmitComment posts a comment and returns the created (unapproved) row.
func (c *Client) SubmitComment(ctx context.Context, id int64, name, email, content string) (model.Comment, error) {
	var comment model.Comment
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/articles/%d/comments", id),
		map[string]string{"name": name, "email": email, "content": content}, &comment)
	return comment, err
}
