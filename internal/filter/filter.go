package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bgricker/teststat/internal/record"
)

// Pattern matches an id against a single value or an inclusive range.
type Pattern struct {
	raw    string
	lo, hi uint32
}

// Compile transforms raw id expressions ("7", "3-9", "1,4-5") into
// patterns. Empty entries are ignored.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, entry := range patterns {
		for _, raw := range strings.Split(entry, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			p, err := compileOne(raw)
			if err != nil {
				return nil, err
			}
			result = append(result, p)
		}
	}
	return result, nil
}

func compileOne(raw string) (Pattern, error) {
	lo, hi, isRange := strings.Cut(raw, "-")
	from, err := parseID(lo)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile id pattern %q: %w", raw, err)
	}
	to := from
	if isRange {
		if to, err = parseID(hi); err != nil {
			return Pattern{}, fmt.Errorf("compile id pattern %q: %w", raw, err)
		}
		if to < from {
			return Pattern{}, fmt.Errorf("compile id pattern %q: range end below start", raw)
		}
	}
	return Pattern{raw: raw, lo: from, hi: to}, nil
}

func parseID(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Match reports whether id falls within the pattern.
func (p Pattern) Match(id uint32) bool {
	return id >= p.lo && id <= p.hi
}

func (p Pattern) String() string { return p.raw }

// Filter selects executions by build, phase and team.
type Filter struct {
	Builds []Pattern
	Phases []Pattern
	Teams  []Pattern
}

// New compiles the three id lists into a Filter.
func New(builds, phases, teams []string) (Filter, error) {
	var (
		f   Filter
		err error
	)
	if f.Builds, err = Compile(builds); err != nil {
		return Filter{}, fmt.Errorf("build filter: %w", err)
	}
	if f.Phases, err = Compile(phases); err != nil {
		return Filter{}, fmt.Errorf("phase filter: %w", err)
	}
	if f.Teams, err = Compile(teams); err != nil {
		return Filter{}, fmt.Errorf("team filter: %w", err)
	}
	return f, nil
}

// Empty reports whether the filter accepts everything.
func (f Filter) Empty() bool {
	return len(f.Builds) == 0 && len(f.Phases) == 0 && len(f.Teams) == 0
}

// Apply returns the executions accepted by the filter, preserving order.
func (f Filter) Apply(recs []record.Execution) []record.Execution {
	if f.Empty() {
		return recs
	}
	result := make([]record.Execution, 0, len(recs))
	for _, rec := range recs {
		if matchesAny(rec.BuildID, f.Builds) && matchesAny(rec.PhaseID, f.Phases) && matchesAny(rec.TeamID, f.Teams) {
			result = append(result, rec)
		}
	}
	return result
}

func matchesAny(id uint32, patterns []Pattern) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if pattern.Match(id) {
			return true
		}
	}
	return false
}
