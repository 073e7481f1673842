package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/teststat/internal/report"
)

// JSONRenderer emits the nested build report as JSON.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Render encodes builds as an indented JSON array. A nil slice renders as [].
func (j *JSONRenderer) Render(builds []report.Build) error {
	if builds == nil {
		builds = []report.Build{}
	}
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(builds)
}
