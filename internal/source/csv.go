package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bgricker/teststat/internal/record"
)

// Column positions of delimited input.
const (
	colID = iota
	colCase
	colBuild
	colTeam
	colExecutionTime
	colResult
	colPhase
	columnCount
)

// CSV reads executions from a delimited text file with one header line.
type CSV struct {
	path      string
	delimiter rune
	log       *logrus.Entry
	skipped   int
}

// NewCSV creates a delimited-file source for path.
func NewCSV(path string, opts Options) *CSV {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CSV{path: path, delimiter: opts.Delimiter, log: opts.Log.WithField("input", path)}
}

// Skipped returns the number of malformed rows dropped by the last read.
func (c *CSV) Skipped() int { return c.skipped }

// Records reads the file. A missing or unreadable file yields no records.
func (c *CSV) Records(ctx context.Context) ([]record.Execution, error) {
	f, err := os.Open(c.path)
	if err != nil {
		c.unreadable(err)
		return nil, nil
	}
	defer f.Close()
	return c.decode(ctx, f)
}

// decode reads one record per line. A quoted field never continues past the
// end of its line, so a stray quote costs only the row it appears in.
func (c *CSV) decode(ctx context.Context, r io.Reader) ([]record.Execution, error) {
	c.skipped = 0

	var (
		recs   []record.Execution
		br     = bufio.NewReader(r)
		header = true
	)
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			c.unreadable(err)
			return nil, nil
		}
		if !blankLine(text) {
			if header {
				header = false
			} else if rec, perr := c.parseLine(text); perr != nil {
				c.skip(line, perr)
			} else {
				recs = append(recs, rec)
			}
		}
		if err != nil {
			break
		}
	}

	c.log.WithFields(logrus.Fields{"records": len(recs), "skipped": c.skipped}).Debug("Read delimited input")
	return recs, nil
}

func (c *CSV) parseLine(text string) (record.Execution, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = c.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	fields, err := reader.Read()
	if err != nil {
		return record.Execution{}, err
	}
	return parseRow(fields)
}

func (c *CSV) unreadable(err error) {
	c.log.WithError(err).Warn("Input not readable, reporting no executions")
}

func (c *CSV) skip(line int, err error) {
	c.skipped++
	c.log.WithFields(logrus.Fields{"line": line}).WithError(err).Warn("Skipping malformed row")
}

func blankLine(text string) bool {
	return strings.TrimSpace(text) == ""
}

func parseRow(fields []string) (record.Execution, error) {
	if len(fields) != columnCount {
		return record.Execution{}, fmt.Errorf("expected %d fields, got %d", columnCount, len(fields))
	}
	var (
		rec record.Execution
		err error
	)
	parse := func(col int, name string, dst *uint32) {
		if err != nil {
			return
		}
		var v uint64
		v, err = strconv.ParseUint(strings.TrimSpace(fields[col]), 10, 32)
		if err != nil {
			err = fmt.Errorf("parse %s: %w", name, err)
			return
		}
		*dst = uint32(v)
	}
	var result uint32
	parse(colID, "record id", &rec.ID)
	parse(colCase, "test case id", &rec.CaseID)
	parse(colBuild, "build id", &rec.BuildID)
	parse(colTeam, "team id", &rec.TeamID)
	parse(colResult, "result", &result)
	parse(colPhase, "phase id", &rec.PhaseID)
	if err != nil {
		return record.Execution{}, err
	}
	rec.Result = record.Result(result)
	return rec, nil
}
