// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/reposearch/internal/config"
	mylog "github.com/staranto/reposearch/internal/log"
	"github.com/staranto/reposearch/internal/meta"
	"github.com/staranto/reposearch/internal/search"
	"github.com/staranto/reposearch/internal/tui"
)

// TuiCommandAction is the action handler for the "tui" subcommand. It runs
// the interactive search screen until the user quits.
func TuiCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "tui") {
		return nil
	}

	config.Config.Namespace = "tui"

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui needs an interactive terminal, use search instead")
	}

	client, err := NewSearchClient(cmd, m)
	if err != nil {
		return err
	}

	opts := []search.Option{
		search.WithPageSize(cmd.Int("per-page")),
		search.WithDebounceDelay(time.Duration(cmd.Int("debounce")) * time.Millisecond),
	}
	model := tui.New(ctx, client, strings.Join(cmd.Args().Slice(), " "), opts...)

	// Log lines would tear the alt screen.
	mylog.Silence()

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Controller().Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// TuiCommandBuilder constructs the cli.Command for "tui".
func TuiCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return &cli.Command{
		Name:      "tui",
		Usage:     "interactive repository search",
		UsageText: `reposearch tui [query] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "debounce",
				Usage: "milliseconds of owner filter inactivity before searching",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("tui.debounce", altsrc.StringSourcer(src)),
				),
				Value: int(search.DefaultDebounce / time.Millisecond),
			},
			newTldrFlag(),
		}, NewSearchFlags("tui", src)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: TuiCommandAction,
	}
}
