// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/reposearch/internal/command"
	"github.com/staranto/reposearch/internal/config"
	"github.com/staranto/reposearch/internal/github"
	mylog "github.com/staranto/reposearch/internal/log"
	"github.com/staranto/reposearch/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	if err := mylog.InitLogger(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer mylog.Close() //nolint:errcheck

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		return 2
	}

	return 0
}

// errorText renders a Run error, adding a hint for failures a user can act on.
func errorText(err error) string {
	msg := github.Message(err)
	switch {
	case github.IsNetwork(err):
		return msg + "\nCheck your network connection and try again."
	case github.IsUpstream(err):
		return msg + "\nGitHub may be having trouble, try again shortly."
	}
	return msg
}

// mangleArguments splices an argument set from the config into args. A set is
// named on the command line as @name and read from <command>.<name>; without
// one, <command>.defaults is used if present.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	// Commands never take a leading @, so anything that looks like a set is
	// one. The first wins and is removed from args.
	set := "defaults"
	rest := make([]string, 0, len(args)-2)
	found := false
	for _, a := range args[2:] {
		if !found && strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			found = true
			continue
		}
		rest = append(rest, a)
	}

	// Set entries go ahead of the user's args so explicit flags win.
	setArgs, _ := config.GetStringSlice(args[1]+"."+set, nil)
	var spliced []string
	for _, arg := range setArgs {
		spliced = append(spliced, strings.Fields(arg)...)
	}

	args = append(append(preamble, spliced...), rest...)
	log.Debugf("set=%s, args=%v", set, args)
	return args
}
