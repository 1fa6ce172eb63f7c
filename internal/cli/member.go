package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/wire"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage family members",
	Long:  "Add, show, list and find members of the family tree",
}

var memberAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a founder member",
	Long: `Add a member without recorded parents.

Children should be added with "kin event birth" so that their parents and
generation are recorded together.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		born, _ := cmd.Flags().GetString("born")
		gen, _ := cmd.Flags().GetInt("gen")
		sex, _ := cmd.Flags().GetString("sex")
		alias, _ := cmd.Flags().GetString("alias")
		email, _ := cmd.Flags().GetString("email")
		url, _ := cmd.Flags().GetString("url")
		family, _ := cmd.Flags().GetInt64("family")

		_, err := wire.MemberAdapterWithOutput(cmd.OutOrStdout()).Add(NewContext(), primary.AddMemberRequest{
			Name:     args[0],
			Born:     born,
			GenOrder: gen,
			Sex:      sex,
			Alias:    alias,
			Email:    email,
			URL:      url,
			FamilyID: family,
		})
		return err
	},
}

var memberShowCmd = &cobra.Command{
	Use:   "show [member-id]",
	Short: "Show a member and its relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("member", args[0])
		if err != nil {
			return err
		}
		_, err = wire.MemberAdapterWithOutput(cmd.OutOrStdout()).Show(NewContext(), id)
		return err
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members by generation then birth date",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, _ := cmd.Flags().GetInt64("family")
		limit, _ := cmd.Flags().GetInt("limit")

		_, err := wire.MemberAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), primary.MemberFilters{
			GenBegin: optionalInt(cmd, "from"),
			GenEnd:   optionalInt(cmd, "to"),
			FamilyID: family,
			Limit:    limit,
		})
		return err
	},
}

var memberFindCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Resolve a member from identifying facts",
	Long: `Resolve a member by name, narrowed by any of birth date, generation,
spouse, father or mother. Ambiguous matches list every candidate.

Examples:
  kin member find "Bob"
  kin member find "Bob" --born 1950-01-01
  kin member find "Bob" --dad "Carl" --mom "Dana"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		born, _ := cmd.Flags().GetString("born")
		spouse, _ := cmd.Flags().GetString("spouse")
		dad, _ := cmd.Flags().GetString("dad")
		mom, _ := cmd.Flags().GetString("mom")

		res, err := wire.MemberAdapterWithOutput(cmd.OutOrStdout()).Find(NewContext(), primary.ResolveRequest{
			Name:     args[0],
			Born:     born,
			GenOrder: optionalInt(cmd, "gen"),
			Spouse:   spouse,
			Dad:      dad,
			Mom:      mom,
		})
		if err != nil {
			return err
		}
		if res.Outcome != "unique" {
			return ErrReported
		}
		return nil
	},
}

var memberGenCmd = &cobra.Command{
	Use:   "gen [begin] [end]",
	Short: "List the members of a range of generations",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		begin, err := strconv.Atoi(args[0])
		if err != nil {
			return outcome.Validation("generation must be a number, got %q", args[0])
		}
		end := begin
		if len(args) == 2 {
			if end, err = strconv.Atoi(args[1]); err != nil {
				return outcome.Validation("generation must be a number, got %q", args[1])
			}
		}
		_, err = wire.LineageAdapterWithOutput(cmd.OutOrStdout()).Generations(NewContext(), begin, end)
		return err
	},
}

var memberRelationsCmd = &cobra.Command{
	Use:   "relations [member-id]",
	Short: "List every relation of a member from its point of view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("member", args[0])
		if err != nil {
			return err
		}
		_, err = wire.MemberAdapterWithOutput(cmd.OutOrStdout()).Relations(NewContext(), id)
		return err
	},
}

// MemberCmd returns the member command with all subcommands attached.
func MemberCmd() *cobra.Command {
	memberAddCmd.Flags().String("born", "", "Birth date (YYYY-MM-DD); unknown if omitted")
	memberAddCmd.Flags().Int("gen", 1, "Generation number")
	memberAddCmd.Flags().String("sex", "", "Sex (M or F)")
	memberAddCmd.Flags().String("alias", "", "Alternate name")
	memberAddCmd.Flags().String("email", "", "Email address")
	memberAddCmd.Flags().String("url", "", "Home page")
	memberAddCmd.Flags().Int64("family", 0, "Family id")

	memberListCmd.Flags().Int("from", 0, "First generation")
	memberListCmd.Flags().Int("to", 0, "Last generation")
	memberListCmd.Flags().Int64("family", 0, "Filter by family id")
	memberListCmd.Flags().IntP("limit", "n", 0, "Maximum members to show")

	memberFindCmd.Flags().String("born", "", "Birth date")
	memberFindCmd.Flags().Int("gen", 0, "Generation number")
	memberFindCmd.Flags().String("spouse", "", "Name of a spouse")
	memberFindCmd.Flags().String("dad", "", "Name of the father")
	memberFindCmd.Flags().String("mom", "", "Name of the mother")

	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberShowCmd)
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberFindCmd)
	memberCmd.AddCommand(memberGenCmd)
	memberCmd.AddCommand(memberRelationsCmd)

	return memberCmd
}
