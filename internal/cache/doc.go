// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the process-lifetime response cache used to avoid
// repeating identical upstream searches within a short window.
//
// Entries expire lazily: an entry older than the TTL is ignored on lookup but
// is not removed. The store has no size bound and no eviction, which is fine
// for the handful of keys an interactive session produces.
package cache
