package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/davrbek/folio/internal/model"
)

// DefaultPageSize matches the server's default feed page size.
const DefaultPageSize = 5

// State is the feed state machine position. Errors are soft: a failed fetch
// keeps the prior state and surfaces through the notifier.
type State int

// Feed states.
const (
	StateInitialLoading State = iota
	StateReady
	StateLoadingMore
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateInitialLoading:
		return "initial_loading"
	case StateReady:
		return "ready"
	case StateLoadingMore:
		return "loading_more"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Notifier receives transient, user-visible error messages.
type Notifier func(message string)

// Controller owns the loaded article sequence, the viewer's liked set and
// the comment panel state. All fields are guarded by mu; the controller is
// the only writer.
type Controller struct {
	client   *Client
	pageSize int64
	notify   Notifier

	mu          sync.Mutex
	state       State
	tag         string
	generation  uint64
	articles    []Article
	liked       map[int64]bool
	hasMore     bool
	currentPage int64
	fetching    bool

	openArticle    int64
	commentPending map[int64]bool

	likeLookups sync.WaitGroup
}

// NewController creates a controller. The notifier may be nil.
func NewController(client *Client, notify Notifier) *Controller {
	return &Controller{
		client:         client,
		pageSize:       DefaultPageSize,
		notify:         notify,
		state:          StateInitialLoading,
		liked:          make(map[int64]bool),
		commentPending: make(map[int64]bool),
	}
}

func (c *Controller) notifyError(message string) {
	if c.notify != nil {
		c.notify(message)
	}
}

// State returns the current feed state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Articles returns a copy of the loaded sequence.
func (c *Controller) Articles() []Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Liked reports the viewer's cached like state for an article.
func (c *Controller) Liked(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liked[id]
}

// HasMore reports whether further pages exist for the active filter.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// OpenArticleID returns the article whose comment panel is open, or 0.
func (c *Controller) OpenArticleID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openArticle
}

// WaitLikeSync blocks until all in-flight like-status lookups settle. The
// page itself is usable before this; the lookups only refine liked flags.
func (c *Controller) WaitLikeSync() {
	c.likeLookups.Wait()
}

// LoadFirstPage resets the feed for a tag filter and fetches page one. Any
// fetch still in flight for a previous filter is ignored when it lands.
func (c *Controller) LoadFirstPage(ctx context.Context, tag string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.tag = tag
	c.state = StateInitialLoading
	c.articles = nil
	c.currentPage = 0
	c.hasMore = false
	c.fetching = true
	c.openArticle = 0
	c.mu.Unlock()

	c.fetchPage(ctx, gen, 1, tag, true)
}

// LoadNextPage fetches the next page. It is a no-op unless the feed is
// READY with more pages and no fetch in flight, so rapid scroll events
// cannot double-increment the page.
func (c *Controller) LoadNextPage(ctx context.Context) {
	c.mu.Lock()
	if c.fetching || !c.hasMore || c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.state = StateLoadingMore
	gen, page, tag := c.generation, c.currentPage+1, c.tag
	c.mu.Unlock()

	c.fetchPage(ctx, gen, page, tag, false)
}

func (c *Controller) fetchPage(ctx context.Context, gen uint64, page int64, tag string, initial bool) {
	articles, pagination, err := c.client.ListArticles(ctx, page, c.pageSize, tag)

	c.mu.Lock()
	if gen != c.generation {
		// The filter changed while this fetch was in flight.
		c.mu.Unlock()
		return
	}
	c.fetching = false

	if err != nil {
		// Soft error: loaded articles stay, LOADING_MORE falls back to
		// READY, an initial load may simply be retried.
		if c.state == StateLoadingMore {
			c.state = StateReady
		}
		c.mu.Unlock()
		c.notifyError("failed to load articles: " + err.Error())
		return
	}

	if initial {
		c.articles = articles
	} else {
		c.articles = append(c.articles, articles...)
	}
	c.currentPage = page
	c.hasMore = page < pagination.TotalPages
	if c.hasMore {
		c.state = StateReady
	} else {
		c.state = StateExhausted
	}
	c.mu.Unlock()

	// One like-status lookup per new article, concurrently. A failed
	// lookup keeps the locally cached value; updates are last-write-wins
	// against user toggles landing around the same time.
	for _, a := range articles {
		id := a.ID
		c.likeLookups.Add(1)
		go func() {
			defer c.likeLookups.Done()
			liked, err := c.client.LikeStatus(ctx, id)
			if err != nil {
				return
			}
			c.mu.Lock()
			if gen == c.generation {
				c.liked[id] = liked
			}
			c.mu.Unlock()
		}()
	}
}

func (c *Controller) indexOfLocked(id int64) int {
	for i := range c.articles {
		if c.articles[i].ID == id {
			return i
		}
	}
	return -1
}

// ToggleLike flips the like for a loaded article. The server's response is
// authoritative for both the flag and the count; nothing is incremented
// locally.
func (c *Controller) ToggleLike(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.indexOfLocked(id) < 0 {
		c.mu.Unlock()
		return fmt.Errorf("article %d is not loaded", id)
	}
	c.mu.Unlock()

	liked, likeCount, err := c.client.ToggleLike(ctx, id)
	if err != nil {
		c.notifyError("failed to update like: " + err.Error())
		return err
	}

	c.mu.Lock()
	c.liked[id] = liked
	if i := c.indexOfLocked(id); i >= 0 {
		c.articles[i].LikeCount = likeCount
	}
	c.mu.Unlock()
	return nil
}

// OpenComments toggles the comment panel for an article. Only one panel is
// open at a time; opening another article's panel closes the previous one.
// A view increment fires in the background and is never waited on.
func (c *Controller) OpenComments(ctx context.Context, id int64) error {
	go func() {
		// View counting is best effort and must not be cancelled with the
		// caller.
		_ = c.client.RecordView(context.WithoutCancel(ctx), id)
	}()

	c.mu.Lock()
	if c.openArticle == id {
		c.openArticle = 0
		c.mu.Unlock()
		return nil
	}
	i := c.indexOfLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("article %d is not loaded", id)
	}
	needsFetch := c.articles[i].Comments == nil
	c.mu.Unlock()

	if needsFetch {
		detail, err := c.client.GetArticle(ctx, id)
		if err != nil {
			c.notifyError("failed to load comments: " + err.Error())
			return err
		}
		if detail.Comments == nil {
			detail.Comments = []model.Comment{}
		}
		c.mu.Lock()
		if i := c.indexOfLocked(id); i >= 0 {
			c.articles[i].Comments = detail.Comments
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.openArticle = id
	c.mu.Unlock()
	return nil
}

// SubmitComment validates and posts a comment for a loaded article. On
// success the new comment is prepended to the cached list, de-duplicated by
// id in case a concurrent detail refetch already delivered it. On failure
// the caller keeps its form contents and may retry.
func (c *Controller) SubmitComment(ctx context.Context, id int64, name, email, content string) (model.Comment, error) {
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)
	if name == "" || content == "" {
		err := fmt.Errorf("name and comment text are required")
		c.notifyError(err.Error())
		return model.Comment{}, err
	}

	c.mu.Lock()
	if c.commentPending[id] {
		c.mu.Unlock()
		return model.Comment{}, fmt.Errorf("a comment for article %d is already being submitted", id)
	}
	c.commentPending[id] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.commentPending, id)
		c.mu.Unlock()
	}()

	comment, err := c.client.SubmitComment(ctx, id, name, email, content)
	if err != nil {
		c.notifyError("failed to submit comment: " + err.Error())
		return model.Comment{}, err
	}

	c.mu.Lock()
	if i := c.indexOfLocked(id); i >= 0 {
		duplicate := false
		for _, existing := range c.articles[i].Comments {
			if existing.ID == comment.ID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			c.articles[i].Comments = append([]model.Comment{comment}, c.articles[i].Comments...)
		}
	}
	c.mu.Unlock()
	return comment, nil
}

// CommentPending reports whether a submit is in flight for the article.
func (c *Controller) CommentPending(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commentPending[id]
}
