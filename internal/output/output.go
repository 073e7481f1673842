// Package output renders build reports.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/bgricker/teststat/internal/config"
	"github.com/bgricker/teststat/internal/report"
)

// Renderer writes a complete report.
type Renderer interface {
	Render(builds []report.Build) error
}

// New returns the renderer for format.
func New(format string, out io.Writer) (Renderer, error) {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return NewJSON(out), nil
	case config.FormatYAML:
		return NewYAML(out), nil
	case config.FormatPretty:
		return NewPretty(out), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
