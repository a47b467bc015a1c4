// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/reposearch/internal/config"
	"github.com/staranto/reposearch/internal/github"
	"github.com/staranto/reposearch/internal/meta"
	"github.com/staranto/reposearch/internal/output"
	"github.com/staranto/reposearch/internal/search"
)

// searchDefaultAttrs are the columns shown when --attrs adds nothing.
var searchDefaultAttrs = []string{
	"full_name:name",
	"stars::c",
	"forks::c",
	"language",
	"description::60",
}

// SearchCommandAction is the action handler for the "search" subcommand. It
// fetches one page of results and emits it per the common flags.
func SearchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr or schema.
	if ShortCircuitTLDR(ctx, cmd, "search") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(github.Repository{})) {
		return nil
	}

	config.Config.Namespace = "search"

	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return errors.New("a search query is required")
	}

	attrs, err := BuildAttrs(cmd, searchDefaultAttrs...)
	if err != nil {
		return fmt.Errorf("invalid --attrs: %w", err)
	}
	log.Debugf("attrs: %v", attrs)

	client, err := NewSearchClient(cmd, m)
	if err != nil {
		return err
	}

	page, perPage := cmd.Int("page"), cmd.Int("per-page")
	resp, err := client.Search(ctx, query, cmd.String("owner"), page, perPage)
	if err != nil {
		return err
	}
	log.Debugf("cache holds %d entries, ttl %s", client.Store().Len(), client.Store().TTL())

	var raw bytes.Buffer
	if err := json.NewEncoder(&raw).Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w := cmd.Root().Writer
	if err := output.SliceDiceSpit(raw, attrs, cmd, "items", w); err != nil {
		return err
	}

	if cmd.String("output") == "text" {
		writeFooter(w, resp, page, perPage)
	}
	return nil
}

// writeFooter prints the same summary and page label the tui shows below
// the result cards.
func writeFooter(w io.Writer, resp *github.SearchResponse, page, perPage int) {
	if len(resp.Items) == 0 {
		fmt.Fprintln(w, "No repositories found")
		return
	}

	st := search.State{CurrentPage: page, PageSize: perPage, TotalCount: resp.TotalCount}
	footer := st.Summary()
	if label := st.PageLabel(); label != "" {
		footer += " • " + label
	}
	fmt.Fprintln(w, footer)
}

// SearchCommandBuilder constructs the cli.Command for "search", wiring
// metadata, flags, and action/validator handlers.
func SearchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return &cli.Command{
		Name:      "search",
		Usage:     "search repositories by name",
		UsageText: `reposearch search <query> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			NewOwnerFlag("search", src),
			&cli.IntFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Usage:   "page of results to show",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("search.page", altsrc.StringSourcer(src)),
				),
				Value: 1,
				Validator: func(value int) error {
					return FlagValidators(value, PageValidator)
				},
			},
			newTldrFlag(),
			newSchemaFlag(),
		}, NewSearchFlags("search", src)...), NewGlobalFlags("search", src)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: SearchCommandAction,
	}
}
