// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/reposearch/internal/github"
)

// maxReachable is how deep into a result set the search API will page.
const maxReachable = 1000

// GlobalFlagsValidator checks the flag combinations no single validator
// can see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	page, perPage := c.Int("page"), c.Int("per-page")
	if page > 1 && (page-1)*perPage >= maxReachable {
		return fmt.Errorf("page %d is beyond the first %d results GitHub will return", page, maxReachable)
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	if !slices.Contains(validOutputFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func PageValidator(value any) error {
	if value.(int) < 1 {
		return errors.New("must be 1 or greater")
	}
	return nil
}

func PerPageValidator(value any) error {
	if n := value.(int); n < 1 || n > github.MaxPageSize {
		return fmt.Errorf("must be between 1 and %d", github.MaxPageSize)
	}
	return nil
}
