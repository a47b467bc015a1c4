// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staranto/reposearch/internal/search"
)

type focus int

const (
	focusQuery focus = iota
	focusOwner
)

// stateMsg carries a fresh controller snapshot into Update.
type stateMsg search.State

// closedMsg is delivered once the model has been shut down.
type closedMsg struct{}

// Model is the bubbletea model. Copies share the same controller.
type Model struct {
	ctx     context.Context
	ctrl    *search.Controller
	updates chan struct{}
	done    chan struct{}

	query textinput.Model
	owner textinput.Model
	spin  spinner.Model
	focus focus

	state   search.State
	initial string
	width   int
	height  int
}

// New returns a Model driving a fresh controller over s. A non-blank query
// is filled in and submitted on start.
func New(ctx context.Context, s search.Searcher, query string, opts ...search.Option) Model {
	updates := make(chan struct{}, 1)
	notify := func(search.State) {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	opts = append(opts, search.WithObserver(notify), search.WithContext(ctx))
	ctrl := search.NewController(s, opts...)

	q := textinput.New()
	q.Prompt = "🔍 "
	q.Placeholder = "Search repositories by name"
	q.CharLimit = 256
	q.Focus()

	o := textinput.New()
	o.Prompt = "👤 "
	o.Placeholder = "Filter by owner"
	o.CharLimit = 39

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		updates: updates,
		done:    make(chan struct{}),
		query:   q,
		owner:   o,
		spin:    sp,
		state:   ctrl.State(),
		width:   80,
	}

	if strings.TrimSpace(query) != "" {
		m.query.SetValue(query)
		m.ctrl.OnQueryChange(query)
		m.state = ctrl.State()
		m.initial = query
	}

	return m
}

// Controller exposes the underlying state machine.
func (m Model) Controller() *search.Controller {
	return m.ctrl
}

// State returns the snapshot the model last rendered.
func (m Model) State() search.State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick, m.watch()}
	if m.initial != "" {
		cmds = append(cmds, m.submit())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = search.State(msg)
		return m, m.watch()

	case closedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit

	case "esc":
		m.ctrl.OnClear()
		m.query.SetValue("")
		m.owner.SetValue("")
		m.focusOn(focusQuery)
		m.state = m.ctrl.State()
		return m, nil

	case "enter":
		return m, m.submit()

	case "tab", "shift+tab":
		if !m.state.HasQuery() {
			return m, nil
		}
		if m.focus == focusQuery {
			m.focusOn(focusOwner)
		} else {
			m.focusOn(focusQuery)
		}
		return m, textinput.Blink

	case "pgdown":
		return m, m.page(m.state.CurrentPage + 1)

	case "pgup":
		return m, m.page(m.state.CurrentPage - 1)
	}

	return m.updateInputs(msg)
}

// updateInputs forwards msg to the focused input and reports any edit to the
// controller.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusQuery:
		before := m.query.Value()
		m.query, cmd = m.query.Update(msg)
		if v := m.query.Value(); v != before {
			m.ctrl.OnQueryChange(v)
			if strings.TrimSpace(v) == "" {
				m.query.SetValue("")
				m.owner.SetValue("")
			}
		}
	case focusOwner:
		before := m.owner.Value()
		m.owner, cmd = m.owner.Update(msg)
		if v := m.owner.Value(); v != before {
			m.ctrl.OnOwnerChange(v)
		}
	}

	m.state = m.ctrl.State()
	return m, cmd
}

func (m *Model) focusOn(f focus) {
	m.focus = f
	if f == focusQuery {
		m.owner.Blur()
		m.query.Focus()
		return
	}
	m.query.Blur()
	m.owner.Focus()
}

// submit searches page 1 off the event loop. Refusals are silent, matching
// an ignored button press.
func (m Model) submit() tea.Cmd {
	if !m.state.HasQuery() || m.state.InFlight() {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if !ctrl.OnSubmit(ctx) {
			log.Debug("tui: submit refused")
		}
		return nil
	}
}

func (m Model) page(p int) tea.Cmd {
	if !m.state.CanPage(p) {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if !ctrl.OnPageChange(ctx, p) {
			log.Debugf("tui: page %d refused", p)
		}
		return nil
	}
}

// watch waits for the controller to publish and hands the latest snapshot
// to Update. Bursts of changes collapse into one message.
func (m Model) watch() tea.Cmd {
	ctrl, updates, done := m.ctrl, m.updates, m.done
	return func() tea.Msg {
		select {
		case <-updates:
			return stateMsg(ctrl.State())
		case <-done:
			return closedMsg{}
		}
	}
}

func (m Model) shutdown() {
	m.ctrl.Close()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}
