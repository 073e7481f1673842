package record

import "fmt"

// Result is the outcome code reported for a test-case execution.
type Result uint32

const (
	// Pass marks a successful execution.
	Pass Result = 1
	// Fail marks a failed execution.
	Fail Result = 2
)

// Passed reports whether r counts as a pass. Every code other than Pass,
// including unknown ones, counts as not passed.
func (r Result) Passed() bool {
	return r == Pass
}

// Valid reports whether r is one of the known result codes.
func (r Result) Valid() bool {
	return r == Pass || r == Fail
}

func (r Result) String() string {
	switch r {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(r))
	}
}

// Execution describes one test-case execution event.
type Execution struct {
	ID      uint32
	CaseID  uint32
	BuildID uint32
	TeamID  uint32
	Result  Result
	PhaseID uint32
}
