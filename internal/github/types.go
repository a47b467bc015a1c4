// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"strings"

	gh "github.com/google/go-github/v67/github"
)

// Repository is a single search hit. Description and Language are empty when
// GitHub has none.
type Repository struct {
	ID          int64  `json:"id" yaml:"id"`
	FullName    string `json:"full_name" yaml:"full_name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	StarCount   int    `json:"stars" yaml:"stars"`
	ForkCount   int    `json:"forks" yaml:"forks"`
}

// HasDescription reports whether the repository carries a description.
func (r Repository) HasDescription() bool {
	return r.Description != ""
}

// HasLanguage reports whether GitHub detected a primary language.
func (r Repository) HasLanguage() bool {
	return r.Language != ""
}

// SearchResponse is one page of results. It is shared with the cache, so
// callers must treat it as read-only.
type SearchResponse struct {
	TotalCount int          `json:"total_count" yaml:"total_count"`
	Incomplete bool         `json:"incomplete_results" yaml:"incomplete_results"`
	Items      []Repository `json:"items" yaml:"items"`
}

func emptyResponse() *SearchResponse {
	return &SearchResponse{Items: []Repository{}}
}

// normalize converts the go-github result into a SearchResponse. This is the
// only place upstream fields are checked: nil items and items without an
// identity are dropped, repeated IDs are dropped, negative counts are clamped
// to zero and a missing URL is derived from the full name.
func normalize(result *gh.RepositoriesSearchResult) *SearchResponse {
	resp := emptyResponse()
	if result == nil {
		return resp
	}

	resp.TotalCount = max(result.GetTotal(), 0)
	resp.Incomplete = result.GetIncompleteResults()

	seen := make(map[int64]bool, len(result.Repositories))
	for _, repo := range result.Repositories {
		if repo == nil {
			continue
		}

		id := repo.GetID()
		name := strings.TrimSpace(repo.GetFullName())
		if id == 0 && name == "" {
			continue
		}
		if id != 0 {
			if seen[id] {
				continue
			}
			seen[id] = true
		}

		url := repo.GetHTMLURL()
		if url == "" && name != "" {
			url = "https://github.com/" + name
		}

		resp.Items = append(resp.Items, Repository{
			ID:          id,
			FullName:    name,
			URL:         url,
			Description: strings.TrimSpace(repo.GetDescription()),
			Language:    strings.TrimSpace(repo.GetLanguage()),
			StarCount:   max(repo.GetStargazersCount(), 0),
			ForkCount:   max(repo.GetForksCount(), 0),
		})
	}

	return resp
}
