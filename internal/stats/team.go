package stats

import (
	"math"

	"github.com/bgricker/teststat/internal/record"
	"github.com/bgricker/teststat/internal/report"
)

// Team accumulates the executions of one team within one phase.
//
// Each test case is a latch: once any execution of the case passed, it stays
// passed. passed+failed always equals len(cases).
type Team struct {
	id     uint32
	cases  map[uint32]bool
	passed int
	failed int
}

func newTeam(id uint32) *Team {
	return &Team{id: id, cases: make(map[uint32]bool)}
}

// ID returns the team id.
func (t *Team) ID() uint32 { return t.id }

// Passed returns the number of cases whose outcome is pass.
func (t *Team) Passed() int { return t.passed }

// Failed returns the number of cases whose outcome is not pass.
func (t *Team) Failed() int { return t.failed }

// Cases returns the number of distinct test cases seen.
func (t *Team) Cases() int { return len(t.cases) }

// Absorb records one execution. The caller routes only executions of this
// team.
func (t *Team) Absorb(rec record.Execution) {
	t.observe(rec.CaseID, rec.Result.Passed())
}

func (t *Team) observe(caseID uint32, pass bool) {
	prev, seen := t.cases[caseID]
	switch {
	case !seen:
		t.cases[caseID] = pass
		if pass {
			t.passed++
		} else {
			t.failed++
		}
	case !prev && pass:
		t.cases[caseID] = true
		t.passed++
		t.failed--
	}
}

// Merge folds other into t. A case ends up passed if it passed on either
// side.
func (t *Team) Merge(other *Team) {
	for caseID, pass := range other.cases {
		t.observe(caseID, pass)
	}
}

// Report returns the team's counts.
func (t *Team) Report() report.Team {
	return report.Team{
		CaseNum:  t.Cases(),
		TeamID:   t.id,
		Passed:   t.passed,
		Failed:   t.failed,
		PassRate: passRate(t.passed, t.Cases()),
	}
}

// passRate is round(passed*100/total). A zero total yields 0%.
func passRate(passed, total int) report.Rate {
	if total == 0 {
		return 0
	}
	return report.Rate(math.Round(float64(passed) * 100 / float64(total)))
}
