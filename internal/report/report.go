package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Build is the per-build section of a statistics report.
type Build struct {
	Phases  []Phase `json:"phase" yaml:"phase"`
	BuildID uint32  `json:"build_id" yaml:"build_id"`
}

// Phase captures counts for one phase of a build.
type Phase struct {
	PhaseID uint32 `json:"phase_id" yaml:"phase_id"`
	TeamNum int    `json:"team_num" yaml:"team_num"`
	CaseNum int    `json:"case_num" yaml:"case_num"`
	Teams   []Team `json:"test_info" yaml:"test_info"`
}

// Team captures counts for one team within a phase.
type Team struct {
	CaseNum  int    `json:"case_num" yaml:"case_num"`
	TeamID   uint32 `json:"team_id" yaml:"team_id"`
	Passed   int    `json:"execution_passed" yaml:"execution_passed"`
	Failed   int    `json:"execution_failed" yaml:"execution_failed"`
	PassRate Rate   `json:"pass_rate" yaml:"pass_rate"`
}

// Rate is a whole-number percentage rendered as "<n>%".
type Rate int

func (r Rate) String() string {
	return strconv.Itoa(int(r)) + "%"
}

// MarshalText renders the rate with its percent sign.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses "<n>%".
func (r *Rate) UnmarshalText(text []byte) error {
	s := strings.TrimSuffix(strings.TrimSpace(string(text)), "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse rate %q: %w", string(text), err)
	}
	*r = Rate(n)
	return nil
}

// Summary aggregates totals across a report.
type Summary struct {
	Builds int
	Phases int
	Teams  int
	Cases  int
	Passed int
	Failed int
}

// Summarize totals the team-level counts of builds.
func Summarize(builds []Build) Summary {
	s := Summary{Builds: len(builds)}
	for _, b := range builds {
		s.Phases += len(b.Phases)
		for _, p := range b.Phases {
			s.Teams += p.TeamNum
			s.Cases += p.CaseNum
			for _, t := range p.Teams {
				s.Passed += t.Passed
				s.Failed += t.Failed
			}
		}
	}
	return s
}
