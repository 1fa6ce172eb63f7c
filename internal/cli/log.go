package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/wire"
)

// LogCmd returns the log command.
func LogCmd() *cobra.Command {
	var member int64
	var event, run string
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the event log",
		Long: `Show recorded events, newest first.

Examples:
  kin log
  kin log --member 3
  kin log --event death -n 20
  kin log --run 2f6c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := primary.LogFilters{
				Event: event,
				RunID: run,
				Limit: limit,
			}
			if member != 0 {
				filters.EntityType = "member"
				filters.EntityID = strconv.FormatInt(member, 10)
			}

			_, err := wire.LogAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), filters)
			return err
		},
	}

	cmd.Flags().Int64Var(&member, "member", 0, "Only events touching this member")
	cmd.Flags().StringVar(&event, "event", "", "Only this event (birth, death, marriage, ...)")
	cmd.Flags().StringVar(&run, "run", "", "Only events of this import or event run")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show")
	return cmd
}
