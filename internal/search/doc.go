// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

/*
Package search holds the interactive search state machine.

A Controller owns the draft query and owner, the current page and the last
response. Presentation layers feed it user actions (query and owner edits,
submit, page change, clear) and render the State snapshots it publishes.
Owner edits are debounced; submit and page changes search immediately but
are refused while a call is in flight.
*/
package search
