// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/reposearch/internal/github"
)

// Flags carry parse state, so each command gets its own instance.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the row keys available to --attrs",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the row shaping flags shared by output producing
// commands. params[0] is the config namespace, params[1] the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns, src := params[0], params[1]

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(src)),
				yaml.YAML("color", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(src)),
				yaml.YAML("output", altsrc.StringSourcer(src)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(src)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(src)),
				yaml.YAML("titles", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
	}

	return
}

// NewOwnerFlag constructs the "owner" flag, namespaced to a command and
// config file.
func NewOwnerFlag(ns string, src string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, src, &cli.StringFlag{
		Name:    "owner",
		Aliases: []string{"u"},
		Usage:   "only repositories owned by this user or organization",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("REPOSEARCH_OWNER"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	})
}

// NewSearchFlags returns the flags every command talking to the search API
// needs. params[0] is the config namespace, params[1] the config file.
func NewSearchFlags(params ...string) []cli.Flag {
	ns, src := params[0], params[1]

	token := NameSpacedValueChainFlagFromConfigFile(ns, src, &cli.StringFlag{
		Name:  "token",
		Usage: "GitHub token, raises the search quota",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("REPOSEARCH_TOKEN"),
			cli.EnvVar("GITHUB_TOKEN"),
		),
		HideDefault: true,
	})

	apiURL := &cli.StringFlag{
		Name:   "api-url",
		Usage:  "GitHub API base URL",
		Hidden: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("REPOSEARCH_API_URL"),
			yaml.YAML(ns+"."+"api_url", altsrc.StringSourcer(src)),
			yaml.YAML("api_url", altsrc.StringSourcer(src)),
		),
	}

	perPage := &cli.IntFlag{
		Name:    "per-page",
		Aliases: []string{"n"},
		Usage:   "results per page",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"per_page", altsrc.StringSourcer(src)),
			yaml.YAML("per_page", altsrc.StringSourcer(src)),
		),
		Value: github.DefaultPageSize,
		Validator: func(value int) error {
			return FlagValidators(value, PerPageValidator)
		},
	}

	return []cli.Flag{token, apiURL, perPage}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
