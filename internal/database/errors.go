// Melograph - Music Streaming Listener Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/melograph

package database

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/melograph/internal/logging"
)

// ErrNoListens is returned by the genre-loyalty query when the enriched
// table is empty: the maximum of an empty score set is undefined, so the
// fallback message cannot be produced either.
var ErrNoListens = errors.New("no enriched play events: loyalty scores are undefined")

// SchemaError reports an input CSV whose header does not match the
// declared table schema. It is fatal: no query runs after one is raised.
type SchemaError struct {
	Path    string
	Want    []string
	Got     []string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: missing columns [%s] (want [%s], got [%s])",
		e.Path,
		strings.Join(e.Missing, ", "),
		strings.Join(e.Want, ", "),
		strings.Join(e.Got, ", "))
}

// closeWithLog closes a resource and logs any error. Use for cleanup
// where errors should be acknowledged but not fail the operation.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // cleanup is best-effort
	}
}
