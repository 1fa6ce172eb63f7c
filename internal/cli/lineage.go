package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/wire"
)

// LineageCmd returns the lineage command.
func LineageCmd() *cobra.Command {
	var up, down int
	var format string

	cmd := &cobra.Command{
		Use:   "lineage [member-id]",
		Short: "Show a member's ancestors, descendants and partners",
		Long: `Walk the family tree from a member: ancestors up to --up hops,
descendants down to --down hops, plus every partner past and present.
Depths left at zero use the configured lineage depth.

Examples:
  kin lineage 3
  kin lineage 3 --up 5 --down 1
  kin lineage 3 --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("member", args[0])
			if err != nil {
				return err
			}
			_, err = wire.LineageAdapterWithOutput(cmd.OutOrStdout()).Show(NewContext(), primary.LineageRequest{
				MemberID: id,
				Up:       up,
				Down:     down,
			}, format)
			return err
		},
	}

	cmd.Flags().IntVar(&up, "up", 0, "Ancestor hops (0 uses the configured depth)")
	cmd.Flags().IntVar(&down, "down", 0, "Descendant hops (0 uses the configured depth)")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format: text, yaml or json")
	return cmd
}
