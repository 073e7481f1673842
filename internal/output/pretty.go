package output

import (
	"bytes"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bgricker/teststat/internal/report"
)

// PrettyRenderer renders build statistics in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
	p   *message.Printer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out, p: message.NewPrinter(language.English)}
}

// Render writes one block per build followed by a summary line.
func (r *PrettyRenderer) Render(builds []report.Build) error {
	if len(builds) == 0 {
		_, err := io.WriteString(r.out, "No executions found\n")
		return err
	}

	var buf bytes.Buffer
	for _, b := range builds {
		r.p.Fprintf(&buf, "Build %s\n", id(b.BuildID))
		for _, ph := range b.Phases {
			r.p.Fprintf(&buf, "  Phase %s: %d %s, %d %s\n", id(ph.PhaseID), ph.TeamNum, plural(ph.TeamNum, "team"), ph.CaseNum, plural(ph.CaseNum, "case"))
			for _, t := range ph.Teams {
				r.p.Fprintf(&buf, "    %s Team %s: %d passed, %d failed of %d (%s)\n", glyph(t), id(t.TeamID), t.Passed, t.Failed, t.CaseNum, t.PassRate)
			}
		}
	}

	s := report.Summarize(builds)
	r.p.Fprintf(&buf, "SUMMARY: %d %s, %d %s, %d %s, %d %s, %d passed, %d failed (%s)\n",
		s.Builds, plural(s.Builds, "build"),
		s.Phases, plural(s.Phases, "phase"),
		s.Teams, plural(s.Teams, "team"),
		s.Cases, plural(s.Cases, "case"),
		s.Passed, s.Failed, overallRate(s))

	_, err := buf.WriteTo(r.out)
	return err
}

func glyph(t report.Team) string {
	switch {
	case t.CaseNum == 0:
		return "-"
	case t.Failed == 0:
		return "✓"
	case t.Passed == 0:
		return "✗"
	default:
		return "~"
	}
}

// id keeps identifiers free of digit grouping.
func id(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func overallRate(s report.Summary) report.Rate {
	total := s.Passed + s.Failed
	if total == 0 {
		return 0
	}
	return report.Rate((s.Passed*200 + total) / (total * 2))
}
