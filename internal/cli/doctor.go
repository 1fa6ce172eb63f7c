package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/config"
	"github.com/example/kin/internal/db"
	"github.com/example/kin/internal/version"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the kin configuration and database",
		Long: `Health check for kin.

Validates:
- Configuration (defaults, config file, .env, environment)
- Database file and schema version

Examples:
  kin doctor              # Run full health check
  kin doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgResult := checkConfig()
			results := []CheckResult{cfgResult}
			if cfg != nil {
				results = append(results, checkDatabase(cfg.DBPath))
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				writeResults(cmd.OutOrStdout(), results, hasErrors)
			}
			if hasErrors {
				return ErrReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func writeResults(out io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintf(out, "%s\n\n", version.String())
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	hasDetails := false
	for _, r := range results {
		if r.Details == "" {
			continue
		}
		if !hasDetails {
			fmt.Fprintln(out, "Details:")
			hasDetails = true
		}
		fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
	}

	if hasErrors {
		fmt.Fprintln(out, "\n⚠ Issues found.")
	} else {
		fmt.Fprintln(out, "\nAll checks passed.")
	}
}

// checkConfig loads and validates the configuration. The config is nil when
// it cannot be loaded at all.
func checkConfig() (*config.Config, CheckResult) {
	result := CheckResult{Name: "Config"}

	cfg, err := config.Load()
	if err != nil {
		result.Status = "✗"
		result.Details = "  " + err.Error()
		return nil, result
	}

	details := fmt.Sprintf("  file: %s\n  env file: %s", orNone(cfg.File), orNone(cfg.EnvFile))
	if err := cfg.Validate(); err != nil {
		result.Status = "✗"
		result.Details = "  " + err.Error() + "\n" + details
		return nil, result
	}

	result.Status = "✓"
	result.Details = details
	return cfg, result
}

// checkDatabase opens the database read-only in spirit: it reports the
// schema version without migrating.
func checkDatabase(path string) CheckResult {
	result := CheckResult{Name: "Database"}

	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			result.Status = "⚠"
			result.Details = fmt.Sprintf("  %s does not exist yet. Run 'kin init'.", path)
			return result
		}
	}

	database, err := db.Open(path)
	if err != nil {
		result.Status = "✗"
		result.Details = "  " + err.Error()
		return result
	}
	defer database.Close()

	current, err := db.CurrentVersion(database)
	if err != nil {
		result.Status = "✗"
		result.Details = fmt.Sprintf("  %s has no schema version: %v\n  Run 'kin init'.", path, err)
		return result
	}

	latest := db.LatestVersion()
	switch {
	case current < latest:
		result.Status = "⚠"
		result.Details = fmt.Sprintf("  schema version %d, latest is %d. Run 'kin init' to migrate.", current, latest)
	case current > latest:
		result.Status = "✗"
		result.Details = fmt.Sprintf("  schema version %d is newer than this binary (%d).", current, latest)
	default:
		result.Status = "✓"
	}
	return result
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
