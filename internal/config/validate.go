// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against the struct-level validation
// tags plus the rules the tags cannot express. It returns the first
// violation found.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid configuration: field %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// A pinned window cutoff must be a calendar date.
	if c.Analysis.WindowCutoff != "" {
		if _, err := time.Parse("2006-01-02", c.Analysis.WindowCutoff); err != nil {
			return fmt.Errorf("invalid analysis.window_cutoff %q: expected YYYY-MM-DD: %w", c.Analysis.WindowCutoff, err)
		}
	}

	return nil
}
