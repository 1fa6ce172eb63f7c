package relation

import (
	"fmt"

	"github.com/example/kin/internal/core/calendar"
	"github.com/example/kin/internal/core/outcome"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    outcome.Kind
	Reason  string
}

// Error converts the guard result to a typed outcome if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &outcome.Error{Kind: r.Kind, Detail: r.Reason}
}

func deny(kind outcome.Kind, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// CreateRelationContext provides context for relation creation guards.
type CreateRelationContext struct {
	MemberID        int64
	PartnerID       int64
	Type            Type
	JoinDate        string
	RequireJoinDate bool      // adoption and step ties need a user-supplied date
	Between         []Summary // every stored relation between the two members
}

// CanCreateRelation evaluates whether a new ongoing relation can be written.
// Rules:
// - Both sides must be stored members and must differ
// - Type must be in the vocabulary and must not be an ended spouse kind
// - Join date must be a real date, or the unknown sentinel when not required
// - No ongoing relation describing the same tie may exist
func CanCreateRelation(ctx CreateRelationContext) GuardResult {
	if ctx.MemberID <= 0 || ctx.PartnerID <= 0 {
		return deny(outcome.KindValidation, "relation needs two stored members, got %d and %d", ctx.MemberID, ctx.PartnerID)
	}
	if ctx.MemberID == ctx.PartnerID {
		return deny(outcome.KindValidation, "member %d cannot be related to themselves", ctx.MemberID)
	}
	if !ctx.Type.Valid() {
		return deny(outcome.KindValidation, "unknown relation type %q", ctx.Type)
	}
	if ctx.Type.IsPartnershipEnd() {
		return deny(outcome.KindValidation, "%q is only reachable by ending a partnership", ctx.Type)
	}

	if ctx.RequireJoinDate {
		if err := calendar.Check(ctx.JoinDate); err != nil {
			return deny(outcome.KindValidation, "join date is required: %v", err)
		}
	} else if err := calendar.CheckOrUnknown(ctx.JoinDate); err != nil {
		return deny(outcome.KindValidation, "join date: %v", err)
	}

	for _, existing := range ctx.Between {
		if existing.State() != StateOngoing {
			continue
		}
		if Same(existing.MemberID, existing.PartnerID, existing.Type, ctx.MemberID, ctx.PartnerID, ctx.Type) {
			return deny(outcome.KindConflict, "members %d and %d already have an ongoing %q relation (id %d)",
				ctx.MemberID, ctx.PartnerID, ctx.Type, existing.ID)
		}
	}

	return GuardResult{Allowed: true}
}

// EndPartnershipContext provides context for divorce and separation.
type EndPartnershipContext struct {
	MemberID  int64
	PartnerID int64
	NewType   Type
	EndDate   string
	Between   []Summary
}

// PlanPartnershipEnd picks the ongoing partnership to end.
// Rules:
// - New type must be divorced or separated
// - End date must be a real date
// - Exactly one ongoing partnership must exist between the pair
// - End date must not precede its join date
func PlanPartnershipEnd(ctx EndPartnershipContext) (Summary, GuardResult) {
	if !ctx.NewType.IsPartnershipEnd() {
		return Summary{}, deny(outcome.KindValidation, "partnership can only end as %q or %q, got %q", SpouseDivorced, SpouseSeparated, ctx.NewType)
	}
	if err := calendar.Check(ctx.EndDate); err != nil {
		return Summary{}, deny(outcome.KindValidation, "end date: %v", err)
	}

	var ongoing []Summary
	for _, s := range ctx.Between {
		if s.Type.IsPartnership() && s.State() == StateOngoing &&
			s.Involves(ctx.MemberID) && s.Involves(ctx.PartnerID) {
			ongoing = append(ongoing, s)
		}
	}

	switch len(ongoing) {
	case 0:
		return Summary{}, deny(outcome.KindNotFound, "no ongoing partnership between members %d and %d", ctx.MemberID, ctx.PartnerID)
	case 1:
	default:
		ids := make([]int64, len(ongoing))
		for i, s := range ongoing {
			ids[i] = s.ID
		}
		return Summary{}, deny(outcome.KindConflict, "members %d and %d have %d ongoing partnerships %v", ctx.MemberID, ctx.PartnerID, len(ongoing), ids)
	}

	target := ongoing[0]
	if result := CanEnd(target, ctx.EndDate); !result.Allowed {
		return Summary{}, result
	}
	return target, GuardResult{Allowed: true}
}

// CanEnd evaluates the Ongoing -> Ended transition for one relation.
// Rules:
// - Ended relations are never reopened or re-ended
// - End date must not precede the join date
func CanEnd(s Summary, endDate string) GuardResult {
	if s.State() == StateEnded {
		return deny(outcome.KindConflict, "relation %d already ended on %s", s.ID, s.EndDate)
	}
	if !calendar.NotBefore(endDate, s.JoinDate) {
		return deny(outcome.KindValidation, "relation %d cannot end on %s before it started on %s", s.ID, endDate, s.JoinDate)
	}
	return GuardResult{Allowed: true}
}

// SkippedEnding explains why a relation was left ongoing by a death.
type SkippedEnding struct {
	Relation Summary
	Reason   string
}

// DeathPlan lists the relation endings a death produces.
type DeathPlan struct {
	End     []Summary
	Skipped []SkippedEnding
}

// PlanDeathEndings ends every ongoing relation involving the member at the
// death date. Relations that already ended keep their end date, and an
// ongoing relation that started after the death is reported instead of
// being given an end before its start.
func PlanDeathEndings(memberID int64, died string, relations []Summary) DeathPlan {
	var plan DeathPlan
	for _, s := range relations {
		if !s.Involves(memberID) || s.State() != StateOngoing {
			continue
		}
		if result := CanEnd(s, died); !result.Allowed {
			plan.Skipped = append(plan.Skipped, SkippedEnding{Relation: s, Reason: result.Reason})
			continue
		}
		plan.End = append(plan.End, s)
	}
	return plan
}
