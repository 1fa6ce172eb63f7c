package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/wire"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Record life events",
	Long: `Record births, deaths, marriages, divorces, adoptions and step-parents.

Every event runs in a single transaction and is written to the event log.`,
}

var eventBirthCmd = &cobra.Command{
	Use:   "birth [name]",
	Short: "Record a birth",
	Long: `Create a child and link it to its parents.

The generation defaults to one below the parents. A birth without any
parent is accepted but flagged for review.

Examples:
  kin event birth "Fay" --dad 3 --mom 4 --born 1978-08-08 --sex F`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dad, _ := cmd.Flags().GetInt64("dad")
		mom, _ := cmd.Flags().GetInt64("mom")

		child := newMemberFromFlags(cmd.Flags(), "", args[0])
		child.GenOrder = optionalInt(cmd, "gen")

		_, err := wire.EventAdapterWithOutput(cmd.OutOrStdout()).Birth(NewContext(), primary.BirthRequest{
			Child: *child,
			DadID: dad,
			MomID: mom,
		})
		return err
	},
}

var eventDeathCmd = &cobra.Command{
	Use:   "death [member-id] [date]",
	Short: "Record a death",
	Long: `Record the member's death date, end its ongoing relations on that
date and deactivate the account registered to its email.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("member", args[0])
		if err != nil {
			return err
		}
		_, err = wire.EventAdapterWithOutput(cmd.OutOrStdout()).Death(NewContext(), primary.DeathRequest{
			MemberID: id,
			Died:     args[1],
		})
		return err
	},
}

var eventMarryCmd = &cobra.Command{
	Use:   "marry [member-id]",
	Short: "Record a marriage or partnership",
	Long: `Join a member to a spouse or partner.

The partner is either an existing member (--partner) or a new one
(--partner-name, with optional --partner-born, --partner-sex, ...). A new
partner who already exists under the same name and birth date is reused.

Examples:
  kin event marry 3 --partner 4 --date 1975-06-01
  kin event marry 3 --partner-name "Erin" --partner-born 1952-02-02 --date 1975-06-01
  kin event marry 3 --partner 4 --type "spouse domestic partnership" --date 1975-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("member", args[0])
		if err != nil {
			return err
		}
		partnerID, _ := cmd.Flags().GetInt64("partner")
		partnerName, _ := cmd.Flags().GetString("partner-name")
		relType, _ := cmd.Flags().GetString("type")
		date, _ := cmd.Flags().GetString("date")

		req := primary.MarriageRequest{
			MemberID:  id,
			PartnerID: partnerID,
			Type:      relType,
			Married:   date,
		}
		if partnerName != "" {
			req.Partner = newMemberFromFlags(cmd.Flags(), "partner-", partnerName)
		}

		_, err = wire.EventAdapterWithOutput(cmd.OutOrStdout()).Marry(NewContext(), req)
		return err
	},
}

var eventDivorceCmd = &cobra.Command{
	Use:   "divorce [member-id] [partner-id]",
	Short: "End a marriage by divorce or separation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("member", args[0])
		if err != nil {
			return err
		}
		partnerID, err := parseID("partner", args[1])
		if err != nil {
			return err
		}
		relType, _ := cmd.Flags().GetString("type")
		date, _ := cmd.Flags().GetString("date")

		_, err = wire.EventAdapterWithOutput(cmd.OutOrStdout()).Divorce(NewContext(), primary.DivorceRequest{
			MemberID:  id,
			PartnerID: partnerID,
			Type:      relType,
			Ended:     date,
		})
		return err
	},
}

var eventAdoptCmd = &cobra.Command{
	Use:   "adopt",
	Short: "Record an adoption",
	Long: `Adopt an existing member (--child) or a new one (--child-name) by one
or two parents.

Examples:
  kin event adopt --child 7 --parent 3 --parent 4 --kind within --date 1990-01-01
  kin event adopt --child-name "Gus" --child-born 1985-05-05 --parent 3 --kind other --date 1990-01-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		childID, _ := cmd.Flags().GetInt64("child")
		childName, _ := cmd.Flags().GetString("child-name")
		parents, _ := cmd.Flags().GetInt64Slice("parent")
		kind, _ := cmd.Flags().GetString("kind")
		date, _ := cmd.Flags().GetString("date")

		req := primary.AdoptionRequest{
			ChildID:   childID,
			ParentIDs: parents,
			Kind:      kind,
			Adopted:   date,
		}
		if childName != "" {
			req.Child = newMemberFromFlags(cmd.Flags(), "child-", childName)
		}

		_, err := wire.EventAdapterWithOutput(cmd.OutOrStdout()).Adopt(NewContext(), req)
		return err
	},
}

var eventStepCmd = &cobra.Command{
	Use:   "step [child-id] [parent-id]",
	Short: "Record a step-parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		childID, err := parseID("child", args[0])
		if err != nil {
			return err
		}
		parentID, err := parseID("parent", args[1])
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetString("date")

		_, err = wire.EventAdapterWithOutput(cmd.OutOrStdout()).Step(NewContext(), primary.StepRequest{
			ChildID:  childID,
			ParentID: parentID,
			Joined:   date,
		})
		return err
	},
}

// addNewMemberFlags registers the descriptive flags of a member created by
// an event, each name carrying prefix.
func addNewMemberFlags(flags *pflag.FlagSet, prefix string) {
	flags.String(prefix+"born", "", "Birth date (YYYY-MM-DD); unknown if omitted")
	flags.String(prefix+"sex", "", "Sex (M or F)")
	flags.String(prefix+"alias", "", "Alternate name")
	flags.String(prefix+"email", "", "Email address")
	flags.String(prefix+"url", "", "Home page")
	flags.Int64(prefix+"family", 0, "Family id")
}

func newMemberFromFlags(flags *pflag.FlagSet, prefix, name string) *primary.NewMember {
	m := &primary.NewMember{Name: name}
	m.Born, _ = flags.GetString(prefix + "born")
	m.Sex, _ = flags.GetString(prefix + "sex")
	m.Alias, _ = flags.GetString(prefix + "alias")
	m.Email, _ = flags.GetString(prefix + "email")
	m.URL, _ = flags.GetString(prefix + "url")
	m.FamilyID, _ = flags.GetInt64(prefix + "family")
	return m
}

// EventCmd returns the event command with all subcommands attached.
func EventCmd() *cobra.Command {
	addNewMemberFlags(eventBirthCmd.Flags(), "")
	eventBirthCmd.Flags().Int("gen", 0, "Generation number (default: below the parents)")
	eventBirthCmd.Flags().Int64("dad", 0, "Father's member id")
	eventBirthCmd.Flags().Int64("mom", 0, "Mother's member id")

	eventMarryCmd.Flags().Int64("partner", 0, "Existing partner's member id")
	eventMarryCmd.Flags().String("partner-name", "", "Name of a new partner")
	addNewMemberFlags(eventMarryCmd.Flags(), "partner-")
	eventMarryCmd.Flags().String("type", "spouse", "Relation type (spouse, spouse civil union, spouse domestic partnership)")
	eventMarryCmd.Flags().String("date", "", "Marriage date")
	eventMarryCmd.MarkFlagsMutuallyExclusive("partner", "partner-name")
	eventMarryCmd.MarkFlagsOneRequired("partner", "partner-name")
	_ = eventMarryCmd.MarkFlagRequired("date")

	eventDivorceCmd.Flags().String("type", "spouse divorced", "Ending type (divorced or separated)")
	eventDivorceCmd.Flags().String("date", "", "Date the marriage ended")
	_ = eventDivorceCmd.MarkFlagRequired("date")

	eventAdoptCmd.Flags().Int64("child", 0, "Existing child's member id")
	eventAdoptCmd.Flags().String("child-name", "", "Name of a new child")
	addNewMemberFlags(eventAdoptCmd.Flags(), "child-")
	eventAdoptCmd.Flags().Int64Slice("parent", nil, "Adopting parent's member id (repeat for two)")
	eventAdoptCmd.Flags().String("kind", "other", "Adoption kind (within or other)")
	eventAdoptCmd.Flags().String("date", "", "Adoption date")
	eventAdoptCmd.MarkFlagsMutuallyExclusive("child", "child-name")
	eventAdoptCmd.MarkFlagsOneRequired("child", "child-name")
	_ = eventAdoptCmd.MarkFlagRequired("parent")
	_ = eventAdoptCmd.MarkFlagRequired("date")

	eventStepCmd.Flags().String("date", "", "Date the step relation began")
	_ = eventStepCmd.MarkFlagRequired("date")

	eventCmd.AddCommand(eventBirthCmd)
	eventCmd.AddCommand(eventDeathCmd)
	eventCmd.AddCommand(eventMarryCmd)
	eventCmd.AddCommand(eventDivorceCmd)
	eventCmd.AddCommand(eventAdoptCmd)
	eventCmd.AddCommand(eventStepCmd)

	return eventCmd
}
