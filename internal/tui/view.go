// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/staranto/reposearch/internal/github"
	"github.com/staranto/reposearch/internal/search"
)

const cacheHint = "Results are cached for 5 minutes"

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7D56F4"))

var subtitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

var inputStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var focusedInputStyle = inputStyle.
	BorderForeground(lipgloss.Color("#7D56F4"))

var spinnerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205"))

var errorStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("1")).
	Foreground(lipgloss.Color("9")).
	Padding(0, 1)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("238")).
	Padding(0, 1)

var nameStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("244"))

var badgeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("229")).
	Padding(0, 1)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GitHub Repository Search"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Start typing to discover more repositories"))
	b.WriteString("\n\n")

	b.WriteString(m.renderInput(m.query.View(), m.focus == focusQuery))
	b.WriteString("\n")
	if m.state.HasQuery() {
		b.WriteString(m.renderInput(m.owner.View(), m.focus == focusOwner))
		b.WriteString("\n")
	}

	if m.state.InFlight() {
		b.WriteString("\n")
		b.WriteString(m.spin.View() + " Searching…")
		b.WriteString("\n")
	}

	if m.state.ResultsPanelOpen && !m.state.IsLoading {
		b.WriteString("\n")
		// Whatever the header and help line leave over. Zero until the first
		// WindowSizeMsg, which leaves the panel unbounded.
		avail := 0
		if m.height > 0 {
			avail = max(m.height-lipgloss.Height(b.String())-2, 1)
		}
		b.WriteString(renderResults(m.state, m.width, avail))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine(m.state)))

	return b.String()
}

func (m Model) renderInput(view string, focused bool) string {
	w := max(m.width-4, 20)
	if focused {
		return focusedInputStyle.Width(w).Render(view)
	}
	return inputStyle.Width(w).Render(view)
}

func helpLine(s search.State) string {
	parts := []string{"enter search"}
	if s.HasQuery() {
		parts = append(parts, "tab owner filter")
	}
	if s.TotalPages() > 1 {
		parts = append(parts, "pgup/pgdown page")
	}
	parts = append(parts, "esc clear", "ctrl+c quit")
	return strings.Join(parts, " • ")
}

// renderResults draws the results panel for s: the error box, the empty
// notice, or one card per repository followed by the summary and page label.
// A positive maxLines bounds the panel height; cards that don't fit are
// counted on a single line instead. At least one card is always drawn.
func renderResults(s search.State, width, maxLines int) string {
	var b strings.Builder

	if s.ErrorMessage != "" {
		b.WriteString(errorStyle.Render(s.ErrorMessage + "\n" + dimStyle.Render(cacheHint)))
		b.WriteString("\n")
		return b.String()
	}

	if len(s.Results) == 0 {
		b.WriteString(dimStyle.Render("No repositories found"))
		b.WriteString("\n")
		return b.String()
	}

	// Summary, page label and the overflow line.
	budget := maxLines - 3
	w := max(width-4, 20)
	shown, used := 0, 0
	for _, repo := range s.Results {
		card := cardStyle.Width(w).Render(renderCard(repo))
		h := lipgloss.Height(card)
		if maxLines > 0 && shown > 0 && used+h > budget {
			break
		}
		b.WriteString(card)
		b.WriteString("\n")
		shown++
		used += h
	}

	if hidden := len(s.Results) - shown; hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d more not shown, enlarge the window to see them", hidden)))
		b.WriteString("\n")
	}

	b.WriteString(s.Summary())
	b.WriteString("\n")
	if label := s.PageLabel(); label != "" {
		b.WriteString(label)
		b.WriteString("\n")
	}

	return b.String()
}

func renderCard(repo github.Repository) string {
	desc := repo.Description
	if !repo.HasDescription() {
		desc = dimStyle.Render("No description")
	}

	stats := []string{
		"⭐ " + humanize.Comma(int64(repo.StarCount)),
		"🔀 " + humanize.Comma(int64(repo.ForkCount)),
	}
	if repo.HasLanguage() {
		stats = append(stats, badgeStyle.Render(repo.Language))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(repo.FullName),
		desc,
		strings.Join(stats, "  "),
	)
}
