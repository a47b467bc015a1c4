// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package debounce delays a callback until a quiet period elapses. Repeated
// calls inside the window collapse into one trailing call, and disposing the
// trigger guarantees the callback never fires afterwards.
package debounce
