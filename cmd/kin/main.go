package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/kin/internal/adapters/cli"
	"github.com/example/kin/internal/cli"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/db"
	"github.com/example/kin/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "kin",
		Short:   "kin - family tree records",
		Version: version.String(),
		Long: `kin keeps a family tree: members, the relations between them and the
life events that change them. It imports legacy mirror exports and answers
identity and lineage questions.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	// Records
	rootCmd.AddCommand(cli.MemberCmd())
	rootCmd.AddCommand(cli.EventCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.LineageCmd())
	rootCmd.AddCommand(cli.AccountCmd())
	rootCmd.AddCommand(cli.LogCmd())

	err := rootCmd.Execute()
	db.Close()
	if err != nil {
		switch _, typed := outcome.As(err); {
		case errors.Is(err, cli.ErrReported):
		case typed:
			cliadapter.WriteError(os.Stderr, err)
		default:
			// Usage errors from cobra: bad flags or argument counts.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'kin --help' for usage.")
		}
		os.Exit(1)
	}
}
