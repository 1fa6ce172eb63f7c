// Package cli provides CLI commands for the kin application.
package cli

import (
	gocontext "context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ctxutil"
	"github.com/example/kin/internal/wire"
)

// NewContext creates a context.Background() with the configured actor embedded.
// CLI commands should use this instead of context.Background() directly so
// the event log can attribute their writes.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if actor := wire.Config().Actor; actor != "" {
		return ctxutil.WithActorID(ctx, actor)
	}
	return ctx
}

// parseID parses a member id argument.
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, outcome.Validation("%s must be a positive member id, got %q", what, s)
	}
	return id, nil
}

// optionalInt returns a pointer to the flag's value when the flag was set.
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// ErrReported signals a failure the command has already explained on its
// output. The caller should exit non-zero without printing it again.
var ErrReported = errors.New("reported")
