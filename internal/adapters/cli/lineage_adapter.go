package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/kin/internal/ports/primary"
)

// Lineage output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// LineageAdapter renders generation ranges and lineage walks.
type LineageAdapter struct {
	service primary.LineageService
	out     io.Writer
}

// NewLineageAdapter creates a new LineageAdapter.
func NewLineageAdapter(service primary.LineageService, out io.Writer) *LineageAdapter {
	return &LineageAdapter{
		service: service,
		out:     out,
	}
}

// Generations lists the members of generations begin..end grouped by generation.
func (a *LineageAdapter) Generations(ctx context.Context, begin, end int) ([]*primary.Member, error) {
	members, err := a.service.MembersInRange(ctx, begin, end)
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		fmt.Fprintf(a.out, "No members in generations %d..%d.\n", begin, end)
		return members, nil
	}

	current := -1
	for _, m := range members {
		if m.GenOrder != current {
			current = m.GenOrder
			fmt.Fprintf(a.out, "\nGeneration %d\n", current)
		}
		fmt.Fprintf(a.out, "  %s\n", memberLine(m))
	}
	return members, nil
}

// Show walks the member's lineage and writes it in format.
func (a *LineageAdapter) Show(ctx context.Context, req primary.LineageRequest, format string) (*primary.Lineage, error) {
	switch format {
	case "", FormatText, FormatYAML, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}

	l, err := a.service.Lineage(ctx, req)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("failed to encode lineage: %w", err)
		}
		return l, enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("failed to encode lineage: %w", err)
		}
		return l, nil
	}

	a.writeText(l)
	return l, nil
}

func (a *LineageAdapter) writeText(l *primary.Lineage) {
	fmt.Fprintf(a.out, "\n%s\n", memberLine(l.Root))

	fmt.Fprintf(a.out, "\nAncestors (up to %d):\n", l.Up)
	writeEntries(a.out, l.Ancestors)

	fmt.Fprintf(a.out, "\nDescendants (up to %d):\n", l.Down)
	writeEntries(a.out, l.Descendants)

	fmt.Fprintln(a.out, "\nPartners:")
	if len(l.Spouses) == 0 {
		fmt.Fprintln(a.out, "  none")
	}
	for _, s := range l.Spouses {
		span := displayDate(s.JoinDate) + " –"
		if s.EndDate != "" {
			span += " " + s.EndDate
		}
		fmt.Fprintf(a.out, "  %s, %s %s\n", memberLine(s.Member), s.Type, span)
	}
}

func writeEntries(out io.Writer, entries []*primary.LineageEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "  %s%s\n", strings.Repeat("  ", e.Depth-1), memberLine(e.Member))
	}
}
