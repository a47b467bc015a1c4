// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/staranto/reposearch/internal/github"
)

// Phase is the coarse position of the controller in its lifecycle.
type Phase int

const (
	// Idle means there is no query.
	Idle Phase = iota
	// Editing means a query is being typed but the results panel is closed.
	Editing
	// Searching means a call is in flight.
	Searching
	// Results means the results panel is open and nothing is in flight.
	Results
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Searching:
		return "searching"
	case Results:
		return "results"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a snapshot of everything a presentation layer needs. Values handed
// out by the Controller are copies; mutating them has no effect.
type State struct {
	DraftQuery       string
	DraftOwner       string
	CurrentPage      int
	PageSize         int
	Results          []github.Repository
	TotalCount       int
	IsLoading        bool
	IsSearching      bool
	ErrorMessage     string
	ResultsPanelOpen bool
}

func initialState(pageSize int) State {
	return State{
		CurrentPage: 1,
		PageSize:    pageSize,
		Results:     []github.Repository{},
	}
}

func (s State) clone() State {
	s.Results = append([]github.Repository(nil), s.Results...)
	if s.Results == nil {
		s.Results = []github.Repository{}
	}
	return s
}

// InFlight reports whether a submit or page change would be refused.
func (s State) InFlight() bool {
	return s.IsLoading || s.IsSearching
}

// HasQuery reports whether the draft query is non-blank.
func (s State) HasQuery() bool {
	return strings.TrimSpace(s.DraftQuery) != ""
}

// Phase derives the current Phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.InFlight():
		return Searching
	case s.ResultsPanelOpen:
		return Results
	case s.HasQuery():
		return Editing
	default:
		return Idle
	}
}

// TotalPages is ceil(TotalCount / PageSize), or 0 with no results.
func (s State) TotalPages() int {
	if s.TotalCount <= 0 || s.PageSize <= 0 {
		return 0
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize
}

// Summary renders "Showing a-b of N results" for the current page, or "" when
// there is nothing to show.
func (s State) Summary() string {
	if s.TotalCount <= 0 || s.PageSize <= 0 {
		return ""
	}
	start := (s.CurrentPage-1)*s.PageSize + 1
	end := min(s.CurrentPage*s.PageSize, s.TotalCount)
	return fmt.Sprintf("Showing %s-%s of %s results",
		humanize.Comma(int64(start)), humanize.Comma(int64(end)), humanize.Comma(int64(s.TotalCount)))
}

// PageLabel renders "Page p of n". It is empty for a single page.
func (s State) PageLabel() string {
	n := s.TotalPages()
	if n <= 1 {
		return ""
	}
	return fmt.Sprintf("Page %s of %s", humanize.Comma(int64(s.CurrentPage)), humanize.Comma(int64(n)))
}

// CanPage reports whether OnPageChange(page) would be accepted.
func (s State) CanPage(page int) bool {
	return !s.InFlight() && page >= 1 && page <= s.TotalPages()
}
