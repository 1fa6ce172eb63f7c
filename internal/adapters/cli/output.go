// Package cli holds the terminal adapters: thin translators from command
// arguments to primary port calls, and from results to text.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/kin/internal/core/calendar"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnMark = color.New(color.FgYellow).Sprint("!")
	skipMark = color.New(color.FgCyan).Sprint("-")
)

// kindLabels are the headings shown for each outcome kind.
var kindLabels = map[outcome.Kind]string{
	outcome.KindValidation: "invalid input",
	outcome.KindNotFound:   "not found",
	outcome.KindAmbiguous:  "ambiguous",
	outcome.KindConflict:   "conflict",
	outcome.KindStorage:    "storage failure",
}

// WriteError prints err with its outcome kind. Ambiguous outcomes list the
// candidate ids so the user can pick one explicitly.
func WriteError(out io.Writer, err error) {
	kind := outcome.KindOf(err)
	label := color.New(color.FgRed, color.Bold).Sprint(kindLabels[kind])
	fmt.Fprintf(out, "%s %s: %v\n", failMark, label, err)

	if oe, ok := outcome.As(err); ok && len(oe.Candidates) > 0 {
		fmt.Fprintln(out, "  candidates:")
		for _, id := range oe.Candidates {
			fmt.Fprintf(out, "    #%d\n", id)
		}
	}
}

// memberLine is the one-line form of a member used across listings.
func memberLine(m *primary.Member) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d) gen %d, %s", m.Name, m.ID, m.GenOrder, lifespan(m))
	if m.Alias != "" {
		fmt.Fprintf(&b, " aka %s", m.Alias)
	}
	return b.String()
}

func lifespan(m *primary.Member) string {
	born := displayDate(m.Born)
	if m.Deceased {
		return fmt.Sprintf("%s – %s", born, m.Died)
	}
	return "born " + born
}

func displayDate(d string) string {
	if calendar.IsUnknown(d) {
		return "?"
	}
	return d
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
