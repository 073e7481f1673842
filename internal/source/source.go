// Package source loads test-case executions from delimited files or SQLite
// databases.
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bgricker/teststat/internal/record"
)

// SQLitePrefix selects the SQLite source regardless of file extension.
const SQLitePrefix = "sqlite://"

// Source yields the executions of one input location.
type Source interface {
	Records(ctx context.Context) ([]record.Execution, error)
}

// Options configure how a location is opened.
type Options struct {
	// Delimiter separates fields of delimited input. Defaults to ','.
	Delimiter rune
	// Table names the SQLite table to read. Defaults to DefaultTable.
	Table string
	Log   *logrus.Entry
}

// Open picks a Source for location: SQLite for a sqlite:// prefix or a
// database extension, delimited text otherwise.
func Open(location string, opts Options) Source {
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if strings.HasPrefix(location, SQLitePrefix) {
		return NewSQLite(strings.TrimPrefix(location, SQLitePrefix), opts)
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(location, opts)
	}
	return NewCSV(location, opts)
}
