package stats

import (
	"sort"

	"github.com/bgricker/teststat/internal/record"
	"github.com/bgricker/teststat/internal/report"
)

type teamCase struct {
	team uint32
	cse  uint32
}

// Phase accumulates the executions of one phase within one build.
type Phase struct {
	id    uint32
	teams map[uint32]*Team
	pairs map[teamCase]struct{}
}

func newPhase(id uint32) *Phase {
	return &Phase{
		id:    id,
		teams: make(map[uint32]*Team),
		pairs: make(map[teamCase]struct{}),
	}
}

// ID returns the phase id.
func (p *Phase) ID() uint32 { return p.id }

// Cases returns the number of distinct (team, test case) pairs seen.
func (p *Phase) Cases() int { return len(p.pairs) }

// Team returns the aggregator for id, or nil when the team has no executions
// in this phase.
func (p *Phase) Team(id uint32) *Team { return p.teams[id] }

// Absorb routes rec to its team, creating the team on first sight.
func (p *Phase) Absorb(rec record.Execution) {
	p.team(rec.TeamID).Absorb(rec)
	p.pairs[teamCase{team: rec.TeamID, cse: rec.CaseID}] = struct{}{}
}

func (p *Phase) team(id uint32) *Team {
	t, ok := p.teams[id]
	if !ok {
		t = newTeam(id)
		p.teams[id] = t
	}
	return t
}

// Merge folds other into p.
func (p *Phase) Merge(other *Phase) {
	for id, t := range other.teams {
		p.team(id).Merge(t)
	}
	for pair := range other.pairs {
		p.pairs[pair] = struct{}{}
	}
}

// Report returns the phase counts with teams in ascending id order.
func (p *Phase) Report() report.Phase {
	ids := make([]uint32, 0, len(p.teams))
	for id := range p.teams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	teams := make([]report.Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, p.teams[id].Report())
	}
	return report.Phase{
		PhaseID: p.id,
		TeamNum: len(p.teams),
		CaseNum: p.Cases(),
		Teams:   teams,
	}
}
