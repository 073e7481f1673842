// Package stats aggregates test-case executions into per build, phase and
// team statistics.
package stats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/bgricker/teststat/internal/record"
	"github.com/bgricker/teststat/internal/report"
)

// ErrUnknownResult indicates executions carried a result code that is
// neither pass nor fail.
var ErrUnknownResult = errors.New("unknown result code")

// Options configure an Aggregator.
type Options struct {
	// Log receives per-record diagnostics. Defaults to the standard logger.
	Log *logrus.Entry
}

// Aggregator is the root of the build → phase → team hierarchy.
type Aggregator struct {
	log     *logrus.Entry
	builds  map[uint32]*Build
	records int
	unknown int
}

// New creates an empty Aggregator.
func New(opts Options) *Aggregator {
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Aggregator{log: opts.Log, builds: make(map[uint32]*Build)}
}

// Add routes one execution to its build, creating the build on first sight.
func (a *Aggregator) Add(rec record.Execution) {
	a.records++
	if !rec.Result.Valid() {
		a.unknown++
		a.log.WithFields(logrus.Fields{
			"record": rec.ID,
			"build":  rec.BuildID,
			"phase":  rec.PhaseID,
			"team":   rec.TeamID,
			"case":   rec.CaseID,
			"result": rec.Result.String(),
		}).Debug("Counting unknown result code as not passed")
	}
	a.build(rec.BuildID).Absorb(rec)
}

// Absorb adds every execution in recs in order.
func (a *Aggregator) Absorb(recs []record.Execution) {
	for _, rec := range recs {
		a.Add(rec)
	}
}

func (a *Aggregator) build(id uint32) *Build {
	b, ok := a.builds[id]
	if !ok {
		b = newBuild(id)
		a.builds[id] = b
	}
	return b
}

// Build returns the aggregator for id, or nil when the build is unknown.
func (a *Aggregator) Build(id uint32) *Build { return a.builds[id] }

// Records returns the number of executions added.
func (a *Aggregator) Records() int { return a.records }

// Unknown returns the number of executions whose result code was neither
// pass nor fail.
func (a *Aggregator) Unknown() int { return a.unknown }

// CheckResults returns an error wrapping ErrUnknownResult when any execution
// had an unknown result code.
func (a *Aggregator) CheckResults() error {
	if a.unknown == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d executions: %w", a.unknown, a.records, ErrUnknownResult)
}

// Merge folds other into a.
func (a *Aggregator) Merge(other *Aggregator) {
	for id, b := range other.builds {
		a.build(id).Merge(b)
	}
	a.records += other.records
	a.unknown += other.unknown
}

// Report returns builds in ascending id order. The result is never nil.
func (a *Aggregator) Report() []report.Build {
	ids := make([]uint32, 0, len(a.builds))
	for id := range a.builds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]report.Build, 0, len(ids))
	for _, id := range ids {
		out = append(out, a.builds[id].Report())
	}
	return out
}
