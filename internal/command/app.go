// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/reposearch/internal/cache"
	"github.com/staranto/reposearch/internal/config"
	"github.com/staranto/reposearch/internal/github"
	"github.com/staranto/reposearch/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the reposearch
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		config.Config.Namespace = args[1]
	}

	// A missing config file is fine, every value has a default.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("config: %v", err)
	}

	ttl, err := config.GetDuration("cache.ttl", time.Second, cache.DefaultTTL)
	if err != nil {
		return nil, err
	}

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Store:   cache.New[*github.SearchResponse](cache.WithTTL(ttl)),
	}

	app := &cli.Command{
		Name:  "reposearch",
		Usage: "GitHub repository search",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "reposearch version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		SearchCommandBuilder(app, meta),
		TuiCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
