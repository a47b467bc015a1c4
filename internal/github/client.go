// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
	gh "github.com/google/go-github/v67/github"
	"github.com/jmgilman/go/errors"

	"github.com/staranto/reposearch/internal/cache"
)

const (
	// DefaultPageSize is the page size used when none is configured.
	DefaultPageSize = 10
	// MaxPageSize is the largest per_page GitHub accepts for search.
	MaxPageSize = 100

	nameQualifier = "in:name"
)

// Client searches repositories through the GitHub REST API, serving repeated
// searches from a cache.Store.
type Client struct {
	gh    *gh.Client
	store *cache.Store[*SearchResponse]
}

type config struct {
	httpClient *http.Client
	baseURL    string
	token      string
	store      *cache.Store[*SearchResponse]
}

// Option configures a Client.
type Option func(*config) error

// WithHTTPClient sets the transport used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		if c == nil {
			err := errors.New(errors.CodeInvalidInput, "http client cannot be nil")
			return errors.WithContext(err, "field", "httpClient")
		}
		cfg.httpClient = c
		return nil
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise host or a test server. An empty value keeps the default.
func WithBaseURL(raw string) Option {
	return func(cfg *config) error {
		cfg.baseURL = strings.TrimSpace(raw)
		return nil
	}
}

// WithToken authenticates requests. An empty token means anonymous access,
// which is subject to a much lower search quota.
func WithToken(token string) Option {
	return func(cfg *config) error {
		cfg.token = strings.TrimSpace(token)
		return nil
	}
}

// WithStore shares an existing cache between clients.
func WithStore(s *cache.Store[*SearchResponse]) Option {
	return func(cfg *config) error {
		if s == nil {
			err := errors.New(errors.CodeInvalidInput, "cache store cannot be nil")
			return errors.WithContext(err, "field", "store")
		}
		cfg.store = s
		return nil
	}
}

// NewClient returns a Client. Without WithStore it gets a private store with
// the default TTL.
func NewClient(opts ...Option) (*Client, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	client := gh.NewClient(cfg.httpClient)
	if cfg.token != "" {
		client = client.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			err := errors.Newf(errors.CodeInvalidConfig, "invalid api url: %q", cfg.baseURL)
			return nil, errors.WithContext(err, "field", "baseURL")
		}
		client.BaseURL = u
	}

	if cfg.store == nil {
		cfg.store = cache.New[*SearchResponse]()
	}

	return &Client{gh: client, store: cfg.store}, nil
}

// EffectiveQuery returns the search string sent upstream: the trimmed query
// restricted to repository names, plus a user qualifier when owner is set.
func EffectiveQuery(query, owner string) string {
	q := strings.TrimSpace(query) + " " + nameQualifier
	if o := strings.TrimSpace(owner); o != "" {
		q += " user:" + o
	}
	return q
}

// Search returns one page of repositories whose names match query, most
// starred first. A blank query yields an empty response without any request.
// Responses are cached per effective query, page and page size; a cached
// response is returned as stored, however stale within the TTL.
func (c *Client) Search(ctx context.Context, query, owner string, page, pageSize int) (*SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		log.Debug("search: empty query, skipping request")
		return emptyResponse(), nil
	}

	if page < 1 {
		err := errors.Newf(errors.CodeInvalidInput, "page must be at least 1, got %d", page)
		return nil, errors.WithContext(err, "field", "page")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		err := errors.Newf(errors.CodeInvalidInput, "page size must be between 1 and %d, got %d", MaxPageSize, pageSize)
		return nil, errors.WithContext(err, "field", "pageSize")
	}

	effective := EffectiveQuery(query, owner)
	key := cache.Key(effective, page, pageSize)

	if entry, ok := c.store.Get(key); ok {
		log.Debugf("cache hit: %s", key)
		return entry.Value, nil
	}
	log.Debugf("cache miss: %s", key)

	opts := &gh.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: pageSize,
		},
	}

	result, resp, err := c.gh.Search.Repositories(ctx, effective, opts)
	if err != nil {
		classified := classify(err, resp)
		log.WithError(err).Warnf("search failed: %s", Message(classified))
		return nil, classified
	}

	out := normalize(result)
	c.store.Put(key, out)
	log.Debugf("search: %q page %d -> %d of %d", effective, page, len(out.Items), out.TotalCount)

	return out, nil
}

// Store returns the cache backing the client.
func (c *Client) Store() *cache.Store[*SearchResponse] {
	return c.store
}

// String implements fmt.Stringer for debug logging.
func (c *Client) String() string {
	return fmt.Sprintf("github.Client{base=%s}", c.gh.BaseURL)
}
