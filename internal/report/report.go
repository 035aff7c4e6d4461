// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report persists per-archive extraction statistics to a tabular
// report. Two backends are supported, selected by the report file extension:
// CSV (the default) and SQLite. Both hold at most one record per archive
// name; reprocessing supersedes the prior record.
package report

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/tex2text/pkg/types"
)

// Store is a keyed collection of StatsRecords backed by a report file.
type Store interface {
	// Upsert inserts the record or replaces an existing one with the same
	// archive name.
	Upsert(rec types.StatsRecord) error

	// Records returns all records ordered by archive name.
	Records() ([]types.StatsRecord, error)

	// Flush makes the current records durable.
	Flush() error

	// Close releases the store. It does not flush.
	Close() error
}

// sqliteExts are the report extensions that select the SQLite backend.
var sqliteExts = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// Open creates or opens the report at path, choosing the backend from the
// file extension.
func Open(path string) (Store, error) {
	if sqliteExts[strings.ToLower(filepath.Ext(path))] {
		return OpenSQLite(path)
	}
	return OpenCSV(path)
}
