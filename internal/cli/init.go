package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/db"
	"github.com/example/kin/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the kin database",
		Long: `Initialize the kin database with the required schema, applying any
pending migrations to an existing one. The location comes from db_path in
the config file or KIN_DB_PATH (default ~/.kin/kin.db).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := wire.Config()

			fmt.Fprintf(out, "Initializing kin database at %s\n", cfg.DBPath)

			// Opening the database creates or migrates the schema.
			database, err := wire.Database()
			if err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			version, err := db.CurrentVersion(database)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Database ready (schema version %d)\n", version)

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed: %w", err)
				}
				fmt.Fprintln(out, "✓ Seeded a three-generation sample family")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  kin import legacy.csv")
			fmt.Fprintln(out, "  kin member add \"Carl\" --born 1920-03-04")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Add a small sample family")
	return cmd
}
