package primary

import "context"

// RowSource is a legacy file exposing the fixed mirror field set.
type RowSource interface {
	// Fields returns the header of the source.
	Fields() []string

	// Next returns the next row keyed by field name, or io.EOF.
	Next() (map[string]string, error)
}

// ImportService defines the primary port for legacy migration.
type ImportService interface {
	// Import runs the full migration pipeline over src.
	Import(ctx context.Context, src RowSource, opts ImportOptions) (*ImportReport, error)
}

// ImportOptions controls an import run.
type ImportOptions struct {
	DryRun bool // run every pass, then roll back
}

// ImportReport is the running tally of an import run.
type ImportReport struct {
	RunID         string
	DryRun        bool
	Total         int
	Imported      int // rows whose member was created or updated
	Created       int
	Updated       int
	Errors        int
	Skipped       int
	ParentsLinked int
	SpousesLinked int
	Details       []ImportDetail
}

// ImportDetail locates one reported row outcome in the source file.
type ImportDetail struct {
	Row    int
	Name   string
	Born   string
	Order  int
	Phase  string // "normalize", "stage", "member", "sex", "parents", "spouse"
	Kind   string // outcome kind, or "skipped"
	Detail string
}
