package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/bgricker/teststat/internal/record"
)

// DefaultTable is the table read by the SQLite source.
const DefaultTable = "executions"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads executions from a table with the columns
// id, case_id, build_id, team_id, result, phase_id.
type SQLite struct {
	path  string
	table string
	log   *logrus.Entry
}

// NewSQLite creates a source reading from the database at path.
func NewSQLite(path string, opts Options) *SQLite {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &SQLite{path: path, table: opts.Table, log: opts.Log.WithField("input", path)}
}

// Records queries the table in rowid order. A missing database file, or a
// path that is not a readable database, yields no records.
func (s *SQLite) Records(ctx context.Context) ([]record.Execution, error) {
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("invalid table name %q", s.table)
	}
	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.log.WithError(err).Warn("Database not found, reporting no executions")
		return nil, nil
	case err != nil:
		s.unreadable(err)
		return nil, nil
	case info.IsDir():
		s.unreadable(fmt.Errorf("%s is a directory", s.path))
		return nil, nil
	}

	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", s.path, err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT id, case_id, build_id, team_id, result, phase_id FROM %q ORDER BY rowid`, s.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if notDatabase(err) {
			s.unreadable(err)
			return nil, nil
		}
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var recs []record.Execution
	for rows.Next() {
		var (
			rec    record.Execution
			result uint32
		)
		if err := rows.Scan(&rec.ID, &rec.CaseID, &rec.BuildID, &rec.TeamID, &result, &rec.PhaseID); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		rec.Result = record.Result(result)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}

	s.log.WithField("records", len(recs)).Debug("Read database input")
	return recs, nil
}

func (s *SQLite) unreadable(err error) {
	s.log.WithError(err).Warn("Input not readable, reporting no executions")
}

// notDatabase reports whether err means the file could not be opened or is
// not an SQLite database at all.
func notDatabase(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code {
	case sqlite3.ErrNotADB, sqlite3.ErrCantOpen, sqlite3.ErrPerm:
		return true
	}
	return false
}
