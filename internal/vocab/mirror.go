package vocab

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brandpulse/triage/internal/model"
)

// mirrorVarNames maps each category to the variable name emitted in the
// generated mirror file.
var mirrorVarNames = map[model.CategoryTag]string{
	model.CategoryCritical:      "CriticalKeywords",
	model.CategoryStrategic:     "StrategicKeywords",
	model.CategoryOperational:   "OperationalKeywords",
	model.CategoryOpportunities: "OpportunitiesKeywords",
}

// Mirror regenerates the static Go mirror of the vocabulary. The mirror
// is a derived artifact for processes that only read configuration at
// startup; it is never hand-edited and never the store of record.
type Mirror struct {
	path string
}

// NewMirror creates a mirror writer targeting the given file path.
func NewMirror(path string) *Mirror {
	return &Mirror{path: path}
}

// Path returns the mirror file location.
func (m *Mirror) Path() string {
	return m.path
}

// Write regenerates the mirror file from the vocabulary, atomically.
func (m *Mirror) Write(v *Vocabulary) error {
	if err := writeFileAtomic(m.path, []byte(Render(v))); err != nil {
		return fmt.Errorf("failed to write vocabulary mirror: %w", err)
	}
	return nil
}

// Render produces the Go source of the mirror file.
func Render(v *Vocabulary) string {
	var b strings.Builder

	b.WriteString("// Code generated by triage keywords sync; DO NOT EDIT.\n")
	b.WriteString("//\n")
	b.WriteString("// Static mirror of the triage vocabulary for processes that read\n")
	b.WriteString("// configuration at startup. Regenerated after every successful\n")
	b.WriteString("// vocabulary mutation; edit via the admin API or CLI instead.\n")
	if !v.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "//\n// Last updated: %s\n", v.UpdatedAt.UTC().Format(time.RFC3339))
	}
	if v.Maintainer != "" {
		fmt.Fprintf(&b, "// Maintainer: %s\n", v.Maintainer)
	}
	b.WriteString("\npackage keywords\n")

	for _, cat := range model.Categories {
		fmt.Fprintf(&b, "\n// %s maps %s vocabulary words to their weights.\n", mirrorVarNames[cat], cat)
		fmt.Fprintf(&b, "var %s = map[string]float64{\n", mirrorVarNames[cat])
		for _, t := range v.Terms(cat) {
			fmt.Fprintf(&b, "\t%s: %s,\n", strconv.Quote(t.Word), formatWeight(t.Weight))
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// formatWeight renders a weight as a valid Go float64 literal.
func formatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
