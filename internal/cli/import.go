package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/adapters/legacycsv"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/wire"
)

// ImportCmd returns the import command.
func ImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a legacy mirror export",
		Long: `Import a CSV export of the legacy member table ("-" reads stdin).

Rows are staged, then members are created or updated by natural key
(name, birth date, generation), then parents and spouses are linked by
name. A row that fails is reported and skipped; the rest of the file still
imports. A storage failure aborts the run and nothing is written.

Examples:
  kin import legacy.csv
  kin import legacy.csv --dry-run
  cat legacy.csv | kin import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src *legacycsv.Source
			var err error
			if args[0] == "-" {
				src, err = legacycsv.NewSource(os.Stdin)
			} else {
				src, err = legacycsv.Open(args[0])
			}
			if err != nil {
				return err
			}
			defer src.Close()

			_, err = wire.ImportAdapterWithOutput(cmd.OutOrStdout()).Run(NewContext(), src, primary.ImportOptions{DryRun: dryRun})
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every pass, report, then roll back")
	return cmd
}
