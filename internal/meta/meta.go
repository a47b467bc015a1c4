// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/reposearch/internal/cache"
	"github.com/staranto/reposearch/internal/config"
	"github.com/staranto/reposearch/internal/github"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Store is the one response cache shared by every client built for this
	// process.
	Store *cache.Store[*github.SearchResponse]
}
