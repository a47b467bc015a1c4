// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package tui is the interactive bubbletea front end. It translates key
// presses into search.Controller actions and renders the State snapshots the
// controller publishes.
package tui
