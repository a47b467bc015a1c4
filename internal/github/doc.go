// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package github searches GitHub repositories by name.
//
// Client.Search builds the effective query (name match plus optional owner),
// consults a cache.Store and, on a miss, issues exactly one request to the
// GitHub search API through go-github. There are no retries. Failures surface
// as structured errors:
//
//   - errors.CodeRateLimit: the upstream quota is exhausted (403/429)
//   - CodeUpstream: any other non-success response
//   - errors.CodeNetwork: the request never produced a response
//
// Use Message to get the text meant for display.
package github
