// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/reposearch/internal/debounce"
	"github.com/staranto/reposearch/internal/github"
)

const (
	// DefaultPageSize is the number of results per page.
	DefaultPageSize = 10
	// DefaultDebounce is the quiet period before an owner edit searches.
	DefaultDebounce = 1500 * time.Millisecond
)

// Searcher fetches one page of results. *github.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query, owner string, page, pageSize int) (*github.SearchResponse, error)
}

// Observer receives a copy of the state after every change. It is called
// without the controller lock held, possibly from a timer goroutine.
type Observer func(State)

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize. Values outside 1..100 are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n >= 1 && n <= github.MaxPageSize {
			c.pageSize = n
		}
	}
}

// WithDebounceDelay overrides DefaultDebounce. Non-positive values are
// ignored.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithAfterFunc replaces the timer factory behind the owner debounce.
func WithAfterFunc(af debounce.AfterFunc) Option {
	return func(c *Controller) {
		c.after = af
	}
}

// WithObserver registers fn to be told about every state change.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithContext sets the context used by debounced searches, which have no
// caller to supply one.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Controller is the search state machine. All methods are safe for
// concurrent use.
type Controller struct {
	mu       sync.Mutex
	state    State
	epoch    uint64
	searcher Searcher
	trigger  *debounce.Trigger
	observer Observer
	ctx      context.Context
	pageSize int
	delay    time.Duration
	after    debounce.AfterFunc
}

// NewController returns an Idle controller backed by s.
func NewController(s Searcher, opts ...Option) *Controller {
	c := &Controller{
		searcher: s,
		ctx:      context.Background(),
		pageSize: DefaultPageSize,
		delay:    DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.state = initialState(c.pageSize)

	var topts []debounce.Option
	if c.after != nil {
		topts = append(topts, debounce.WithAfterFunc(c.after))
	}
	c.trigger = debounce.New(c.debounced, c.delay, topts...)

	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// OnQueryChange records a new draft query. A blank query resets everything.
func (c *Controller) OnQueryChange(text string) {
	c.mu.Lock()
	if strings.TrimSpace(text) == "" {
		c.resetLocked()
		c.mu.Unlock()
		c.trigger.Cancel()
		log.Debug("controller: query cleared, reset to idle")
		c.publish()
		return
	}
	c.state.DraftQuery = text
	c.mu.Unlock()
	c.publish()
}

// OnOwnerChange records a new owner filter. With a query present it raises
// the loading flags and schedules a debounced search of page 1; rapid edits
// coalesce into one search using the last owner.
func (c *Controller) OnOwnerChange(text string) {
	c.mu.Lock()
	c.state.DraftOwner = text
	hasQuery := c.state.HasQuery()
	if hasQuery {
		c.state.IsSearching = true
		c.state.IsLoading = true
		c.state.ErrorMessage = ""
	}
	c.mu.Unlock()

	if hasQuery {
		c.trigger.Call()
		log.Debugf("controller: owner %q, search scheduled", strings.TrimSpace(text))
	}
	c.publish()
}

// OnSubmit opens the results panel and searches page 1 immediately. It is
// refused, returning false, when the query is blank or a call is in flight.
// It blocks until the search settles.
func (c *Controller) OnSubmit(ctx context.Context) bool {
	c.mu.Lock()
	if !c.state.HasQuery() {
		c.mu.Unlock()
		log.Debug("controller: submit ignored, empty query")
		return false
	}
	if c.state.InFlight() {
		c.mu.Unlock()
		log.Debug("controller: submit ignored, search in flight")
		return false
	}
	c.state.ResultsPanelOpen = true
	c.state.IsSearching = true
	c.state.IsLoading = true
	c.state.ErrorMessage = ""
	c.mu.Unlock()
	c.publish()

	c.run(ctx, 1)
	return true
}

// OnPageChange searches page immediately. It is refused, returning false,
// when page is outside 1..TotalPages or a call is in flight. A pending owner
// debounce is left alone. It blocks until the search settles.
func (c *Controller) OnPageChange(ctx context.Context, page int) bool {
	c.mu.Lock()
	if !c.state.CanPage(page) {
		s := c.state
		c.mu.Unlock()
		log.Debugf("controller: page %d ignored (pages=%d, inflight=%t)", page, s.TotalPages(), s.InFlight())
		return false
	}
	c.state.IsLoading = true
	c.mu.Unlock()
	c.publish()

	c.run(ctx, page)
	return true
}

// OnClear cancels any pending owner search and resets everything to Idle.
func (c *Controller) OnClear() {
	c.trigger.Cancel()
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	log.Debug("controller: cleared")
	c.publish()
}

// Close disposes the debounce timer. No debounced search starts afterwards.
func (c *Controller) Close() {
	c.trigger.Dispose()
}

// Pending reports whether a debounced search is scheduled.
func (c *Controller) Pending() bool {
	return c.trigger.Pending()
}

func (c *Controller) debounced() {
	c.run(c.ctx, 1)
}

// run performs one search with the draft values current at call time and
// folds the outcome into the state. Responses that arrive after a reset are
// dropped.
func (c *Controller) run(ctx context.Context, page int) {
	c.mu.Lock()
	query := c.state.DraftQuery
	owner := c.state.DraftOwner
	epoch := c.epoch
	if strings.TrimSpace(query) == "" {
		c.resetLocked()
		c.mu.Unlock()
		c.publish()
		return
	}
	c.mu.Unlock()

	resp, err := c.searcher.Search(ctx, query, owner, page, c.pageSize)

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		log.Debugf("controller: dropping response for %q, state was reset", query)
		return
	}

	if err != nil {
		c.state.Results = []github.Repository{}
		c.state.TotalCount = 0
		c.state.ErrorMessage = github.Message(err)
		log.WithError(err).Warn("controller: search failed")
	} else {
		items := resp.Items
		if items == nil {
			items = []github.Repository{}
		}
		c.state.Results = items
		c.state.TotalCount = resp.TotalCount
		c.state.CurrentPage = page
		c.state.ErrorMessage = ""
		log.Debugf("controller: page %d of %q -> %d items, total %d", page, query, len(items), resp.TotalCount)
	}
	c.state.IsLoading = false
	c.state.IsSearching = false
	c.mu.Unlock()

	c.publish()
}

func (c *Controller) resetLocked() {
	c.state = initialState(c.pageSize)
	c.epoch++
}

func (c *Controller) publish() {
	if c.observer == nil {
		return
	}
	c.observer(c.State())
}
