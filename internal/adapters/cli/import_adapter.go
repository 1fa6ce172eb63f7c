package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/kin/internal/ports/primary"
)

// ImportAdapter runs a legacy import and prints its report.
type ImportAdapter struct {
	service primary.ImportService
	out     io.Writer
}

// NewImportAdapter creates a new ImportAdapter.
func NewImportAdapter(service primary.ImportService, out io.Writer) *ImportAdapter {
	return &ImportAdapter{
		service: service,
		out:     out,
	}
}

// Run imports src. A partial report is still printed when the run aborts.
func (a *ImportAdapter) Run(ctx context.Context, src primary.RowSource, opts primary.ImportOptions) (*primary.ImportReport, error) {
	report, err := a.service.Import(ctx, src, opts)
	if report != nil {
		a.writeReport(report, err != nil)
	}
	return report, err
}

func (a *ImportAdapter) writeReport(r *primary.ImportReport, aborted bool) {
	title := "Import finished"
	switch {
	case aborted:
		title = color.New(color.FgRed).Sprint("Import aborted, nothing was written")
	case r.DryRun:
		title = color.New(color.FgYellow).Sprint("Dry run, nothing was written")
	}
	fmt.Fprintf(a.out, "\n%s (run %s)\n", title, r.RunID)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  rows\t%d\n", r.Total)
	fmt.Fprintf(w, "  imported\t%d\t(%d created, %d updated)\n", r.Imported, r.Created, r.Updated)
	fmt.Fprintf(w, "  parents linked\t%d\n", r.ParentsLinked)
	fmt.Fprintf(w, "  spouses linked\t%d\n", r.SpousesLinked)
	fmt.Fprintf(w, "  skipped\t%d\n", r.Skipped)
	fmt.Fprintf(w, "  errors\t%d\n", r.Errors)
	w.Flush()

	if len(r.Details) == 0 {
		return
	}
	fmt.Fprintln(a.out)
	for _, d := range r.Details {
		mark := failMark
		if d.Kind == "skipped" {
			mark = skipMark
		}
		fmt.Fprintf(a.out, "%s row %d %s (born %s, gen %d) [%s] %s\n",
			mark, d.Row, orDash(d.Name), displayDate(d.Born), d.Order, d.Phase, d.Detail)
	}
}
