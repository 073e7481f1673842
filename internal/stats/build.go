package stats

import (
	"github.com/bgricker/teststat/internal/record"
	"github.com/bgricker/teststat/internal/report"
)

// Build accumulates the executions of one build. Phases are reported in the
// order they were first seen, not by id.
type Build struct {
	id     uint32
	phases map[uint32]*Phase
	order  []uint32
}

func newBuild(id uint32) *Build {
	return &Build{id: id, phases: make(map[uint32]*Phase)}
}

// ID returns the build id.
func (b *Build) ID() uint32 { return b.id }

// Phase returns the aggregator for id, or nil when the phase is unknown.
func (b *Build) Phase(id uint32) *Phase { return b.phases[id] }

// PhaseOrder returns phase ids in first-seen order.
func (b *Build) PhaseOrder() []uint32 {
	return append([]uint32(nil), b.order...)
}

// Absorb routes rec to its phase, creating the phase on first sight.
func (b *Build) Absorb(rec record.Execution) {
	b.phase(rec.PhaseID).Absorb(rec)
}

func (b *Build) phase(id uint32) *Phase {
	p, ok := b.phases[id]
	if !ok {
		p = newPhase(id)
		b.phases[id] = p
		b.order = append(b.order, id)
	}
	return p
}

// Merge folds other into b. Phases new to b are appended in other's
// first-seen order.
func (b *Build) Merge(other *Build) {
	for _, id := range other.order {
		b.phase(id).Merge(other.phases[id])
	}
}

// Report returns the build with its phases in first-seen order.
func (b *Build) Report() report.Build {
	phases := make([]report.Phase, 0, len(b.order))
	for _, id := range b.order {
		phases = append(phases, b.phases[id].Report())
	}
	return report.Build{Phases: phases, BuildID: b.id}
}
