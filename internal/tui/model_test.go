// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/reposearch/internal/debounce/debouncetest"
	"github.com/staranto/reposearch/internal/github"
	"github.com/staranto/reposearch/internal/search"
)

type fakeSearcher struct {
	mu     sync.Mutex
	total  int
	err    error
	owners []string
}

func (f *fakeSearcher) Search(_ context.Context, _, owner string, page, pageSize int) (*github.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners = append(f.owners, owner)
	if f.err != nil {
		return nil, f.err
	}
	resp := &github.SearchResponse{TotalCount: f.total, Items: []github.Repository{}}
	for i := (page - 1) * pageSize; i < min(page*pageSize, f.total); i++ {
		resp.Items = append(resp.Items, github.Repository{
			ID:        int64(i + 1),
			FullName:  fmt.Sprintf("octo/r%d", i+1),
			StarCount: 1000 * (i + 1),
		})
	}
	return resp, nil
}

func (f *fakeSearcher) Owners() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.owners...)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// waitForText blocks until every text has appeared in output read since the
// previous wait.
func waitForText(t *testing.T, tm *teatest.TestModel, texts ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool {
			for _, text := range texts {
				if !bytes.Contains(b, []byte(text)) {
					return false
				}
			}
			return true
		},
		teatest.WithCheckInterval(10*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)
}

func TestModel_TypingUpdatesDraft(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, "")
	t.Cleanup(m.shutdown)

	m, _ = send(t, m, key("r"))
	m, _ = send(t, m, key("x"))
	assert.Equal(t, "rx", m.State().DraftQuery)
	assert.Equal(t, search.Editing, m.State().Phase())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, search.Idle, m.State().Phase())
	assert.Empty(t, m.query.Value())
}

func TestModel_TabNeedsQuery(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, "")
	t.Cleanup(m.shutdown)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusQuery, m.focus)

	m, _ = send(t, m, key("react"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusOwner, m.focus)
	assert.True(t, m.owner.Focused())
	assert.False(t, m.query.Focused())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusQuery, m.focus)
}

func TestModel_OwnerEditsAreDebounced(t *testing.T) {
	fs := &fakeSearcher{total: 3}
	sched := &debouncetest.Scheduler{}
	m := New(context.Background(), fs, "react", search.WithAfterFunc(sched.AfterFunc))
	t.Cleanup(m.shutdown)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "octo" {
		m, _ = send(t, m, key(string(r)))
	}

	assert.Equal(t, "octo", m.State().DraftOwner)
	assert.True(t, m.State().InFlight())
	assert.Equal(t, 1, sched.Armed())
	assert.Empty(t, fs.Owners())

	sched.Fire()
	assert.Equal(t, []string{"octo"}, fs.Owners())
}

func TestModel_RefusedCommands(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{total: 5}, "")
	t.Cleanup(m.shutdown)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "no submit without a query")

	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Nil(t, cmd, "no paging without results")
}

func TestModel_EscClears(t *testing.T) {
	fs := &fakeSearcher{total: 25}
	m := New(context.Background(), fs, "react")
	t.Cleanup(m.shutdown)

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	m, _ = send(t, m, stateMsg(m.Controller().State()))
	require.Equal(t, 25, m.State().TotalCount)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	s := m.State()
	assert.Equal(t, search.Idle, s.Phase())
	assert.False(t, s.ResultsPanelOpen)
	assert.Empty(t, s.Results)
	assert.Empty(t, m.query.Value())
	assert.Empty(t, m.owner.Value())
}

func TestModel_SubmitAndPage(t *testing.T) {
	fs := &fakeSearcher{total: 25}
	m := New(context.Background(), fs, "")

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 80))

	tm.Type("react")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Showing 1-10 of 25 results", "Page 1 of 3")

	tm.Send(tea.KeyMsg{Type: tea.KeyPgDown})
	waitForText(t, tm, "Showing 11-20 of 25 results")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	s := final.State()
	assert.Equal(t, 2, s.CurrentPage)
	assert.Equal(t, search.Results, s.Phase())
	assert.Len(t, s.Results, 10)
}

func TestModel_InitialQuerySubmits(t *testing.T) {
	fs := &fakeSearcher{total: 2}
	m := New(context.Background(), fs, "react")

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))
	waitForText(t, tm, "Showing 1-2 of 2 results")

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Equal(t, search.Idle, final.State().Phase())
}

func TestModel_ErrorPanel(t *testing.T) {
	fs := &fakeSearcher{err: errors.New("GitHub API rate limit exceeded. Please try again later.")}
	m := New(context.Background(), fs, "react")

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))
	waitForText(t, tm, "rate limit exceeded", cacheHint)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
