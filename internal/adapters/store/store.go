// Package store holds the backends for the suspicious URL list and the
// analysis history.
package store

import (
	"github.com/mikey/phish-detector/internal/core"
)

// ErrNotFound is returned when removing a URL that is not stored
var ErrNotFound = core.ErrURLNotFound

// historyLimit returns the number of entries to read for a requested limit
func historyLimit(limit int) int {
	if limit <= 0 || limit > core.HistoryLimit {
		return core.HistoryLimit
	}
	return limit
}
