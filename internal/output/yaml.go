package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bgricker/teststat/internal/report"
)

// YAMLRenderer emits the nested build report as YAML.
type YAMLRenderer struct {
	out io.Writer
}

// NewYAML creates a YAML renderer writing to out.
func NewYAML(out io.Writer) *YAMLRenderer {
	return &YAMLRenderer{out: out}
}

// Render encodes builds as a YAML sequence.
func (y *YAMLRenderer) Render(builds []report.Build) error {
	if builds == nil {
		builds = []report.Build{}
	}
	enc := yaml.NewEncoder(y.out)
	enc.SetIndent(2)
	if err := enc.Encode(builds); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
