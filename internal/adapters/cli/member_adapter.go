package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/kin/internal/ports/primary"
)

// MemberAdapter translates member commands to MemberService and
// IdentityService calls.
type MemberAdapter struct {
	members  primary.MemberService
	identity primary.IdentityService
	out      io.Writer
}

// NewMemberAdapter creates a new MemberAdapter.
func NewMemberAdapter(members primary.MemberService, identity primary.IdentityService, out io.Writer) *MemberAdapter {
	return &MemberAdapter{
		members:  members,
		identity: identity,
		out:      out,
	}
}

// Add creates a founder member.
func (a *MemberAdapter) Add(ctx context.Context, req primary.AddMemberRequest) (*primary.Member, error) {
	m, err := a.members.AddMember(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Added %s\n", okMark, memberLine(m))
	return m, nil
}

// Show displays one member and the relations seen from its side.
func (a *MemberAdapter) Show(ctx context.Context, memberID int64) (*primary.Member, error) {
	m, err := a.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nMember: #%d\n", m.ID)
	fmt.Fprintf(a.out, "Name:       %s\n", m.Name)
	fmt.Fprintf(a.out, "Alias:      %s\n", orDash(m.Alias))
	fmt.Fprintf(a.out, "Born:       %s\n", displayDate(m.Born))
	if m.Deceased {
		fmt.Fprintf(a.out, "Died:       %s\n", m.Died)
	}
	fmt.Fprintf(a.out, "Sex:        %s\n", orDash(m.Sex))
	fmt.Fprintf(a.out, "Generation: %d\n", m.GenOrder)
	if m.Email != "" {
		fmt.Fprintf(a.out, "Email:      %s\n", m.Email)
	}
	if m.URL != "" {
		fmt.Fprintf(a.out, "URL:        %s\n", m.URL)
	}
	fmt.Fprintln(a.out)

	if _, err := a.Relations(ctx, memberID); err != nil {
		return nil, err
	}
	return m, nil
}

// List prints members ordered by generation then birth date.
func (a *MemberAdapter) List(ctx context.Context, filters primary.MemberFilters) ([]*primary.Member, error) {
	members, err := a.members.ListMembers(ctx, filters)
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Import a legacy export or add a founder:")
		fmt.Fprintln(a.out, "  kin import family.csv")
		fmt.Fprintln(a.out, "  kin member add \"Carl\" --born 1930 --gen 1")
		return members, nil
	}

	writeMemberTable(a.out, members)
	return members, nil
}

// Find resolves a natural-key query and prints the tri-state outcome.
func (a *MemberAdapter) Find(ctx context.Context, req primary.ResolveRequest) (*primary.Resolution, error) {
	res, err := a.identity.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case "unique":
		fmt.Fprintf(a.out, "%s %s\n", okMark, memberLine(res.Member))
	case "ambiguous":
		fmt.Fprintf(a.out, "%s %d members match; refine with --born, --gen, --dad, --mom or --spouse:\n", warnMark, len(res.Candidates))
		writeMemberTable(a.out, res.Candidates)
	default:
		fmt.Fprintf(a.out, "%s No member matches %q\n", skipMark, req.Name)
	}
	return res, nil
}

// Relations prints every relation involving the member.
func (a *MemberAdapter) Relations(ctx context.Context, memberID int64) ([]*primary.RelationView, error) {
	views, err := a.members.RelationsOf(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if len(views) == 0 {
		fmt.Fprintln(a.out, "No relations.")
		return views, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "REL\tAS\tMEMBER\tFROM\tTO")
	fmt.Fprintln(w, "---\t--\t------\t----\t--")
	for _, v := range views {
		other := "?"
		if v.Other != nil {
			other = fmt.Sprintf("%s (#%d)", v.Other.Name, v.Other.ID)
		}
		to := "ongoing"
		if !v.Ongoing {
			to = v.EndDate
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.RelationID, v.Label, other, displayDate(v.JoinDate), to)
	}
	w.Flush()
	return views, nil
}

func writeMemberTable(out io.Writer, members []*primary.Member) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGEN\tBORN\tDIED\tSEX")
	fmt.Fprintln(w, "--\t----\t---\t----\t----\t---")
	for _, m := range members {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			m.ID,
			m.Name,
			m.GenOrder,
			displayDate(m.Born),
			orDash(m.Died),
			orDash(m.Sex),
		)
	}
	w.Flush()
}
