package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/kin/internal/ports/primary"
)

// LogAdapter prints the event log.
type LogAdapter struct {
	service primary.LogService
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter.
func NewLogAdapter(service primary.LogService, out io.Writer) *LogAdapter {
	return &LogAdapter{
		service: service,
		out:     out,
	}
}

// List prints log entries newest first.
func (a *LogAdapter) List(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	entries, err := a.service.ListLogs(ctx, filters)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No log entries.")
		return entries, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEVENT\tENTITY\tACTOR\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s:%s\t%s\t%s\n", e.Timestamp, e.Event, e.EntityType, e.EntityID, orDash(e.ActorID), e.Detail)
	}
	w.Flush()
	return entries, nil
}
