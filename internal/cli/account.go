package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/wire"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage login accounts",
	Long:  "Register, verify, list and deactivate the accounts of family members",
}

var accountAddCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Register an account",
	Long: `Register an account. The password is read from the first line of
standard input unless --password is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFrom(cmd)
		if err != nil {
			return err
		}
		role, _ := cmd.Flags().GetString("role")
		family, _ := cmd.Flags().GetInt64("family")
		member, _ := cmd.Flags().GetInt64("member")

		_, err = wire.AccountAdapterWithOutput(cmd.OutOrStdout()).Register(NewContext(), primary.RegisterAccountRequest{
			Email:    args[0],
			Password: password,
			Role:     role,
			FamilyID: family,
			MemberID: member,
		})
		return err
	},
}

var accountVerifyCmd = &cobra.Command{
	Use:   "verify [email]",
	Short: "Check an account password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFrom(cmd)
		if err != nil {
			return err
		}
		ok, err := wire.AccountAdapterWithOutput(cmd.OutOrStdout()).Verify(NewContext(), args[0], password)
		if err != nil {
			return err
		}
		if !ok {
			return ErrReported
		}
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")
		role, _ := cmd.Flags().GetString("role")
		limit, _ := cmd.Flags().GetInt("limit")

		_, err := wire.AccountAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), primary.AccountFilters{
			State: state,
			Role:  role,
			Limit: limit,
		})
		return err
	},
}

var accountDeactivateCmd = &cobra.Command{
	Use:   "deactivate [email]",
	Short: "Deactivate an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.AccountAdapterWithOutput(cmd.OutOrStdout()).Deactivate(NewContext(), args[0])
		return err
	},
}

// passwordFrom returns --password, or the first line of stdin.
func passwordFrom(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("password") {
		return cmd.Flags().GetString("password")
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", outcome.Validation("no password given on stdin")
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

// AccountCmd returns the account command with all subcommands attached.
func AccountCmd() *cobra.Command {
	accountAddCmd.Flags().String("password", "", "Password (default: read from stdin)")
	accountAddCmd.Flags().String("role", "member", "Role: member, family-admin or platform-admin")
	accountAddCmd.Flags().Int64("family", 0, "Family id")
	accountAddCmd.Flags().Int64("member", 0, "Member id the account belongs to")

	accountVerifyCmd.Flags().String("password", "", "Password (default: read from stdin)")

	accountListCmd.Flags().String("state", "", "Filter by state (active, pending, inactive)")
	accountListCmd.Flags().String("role", "", "Filter by role")
	accountListCmd.Flags().IntP("limit", "n", 0, "Maximum accounts to show")

	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountVerifyCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountDeactivateCmd)

	return accountCmd
}
