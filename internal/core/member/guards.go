package member

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

// CreateMemberContext provides context for member creation guards.
type CreateMemberContext struct {
	Key           NaturalKey
	ExistingIDs   []int64 // members already stored under Key
	AllowExisting bool    // upsert callers may reuse an existing key
}

// CanCreateMember evaluates whether a member can be created.
// Rules:
// - Name must not be a placeholder
// - Born must be a real date or the unknown sentinel
// - Generation order must not be negative
// - The natural key must not already exist (unless reuse is allowed)
func CanCreateMember(ctx CreateMemberContext) GuardResult {
	if IsPlaceholderName(ctx.Key.Name) {
		return deny(outcome.KindValidation, "member name %q is missing or a placeholder", ctx.Key.Name)
	}
	if err := calendar.CheckOrUnknown(ctx.Key.Born); err != nil {
		return deny(outcome.KindValidation, "born: %v", err)
	}
	if ctx.Key.GenOrder < 0 {
		return deny(outcome.KindValidation, "generation order %d must not be negative", ctx.Key.GenOrder)
	}
	if len(ctx.ExistingIDs) > 0 && !ctx.AllowExisting {
		return deny(outcome.KindConflict, "member %s already exists as id %d", ctx.Key, ctx.ExistingIDs[0])
	}
	return GuardResult{Allowed: true}
}

// RecordDeathContext provides context for the death guard.
type RecordDeathContext struct {
	MemberID      int64
	Born          string
	CurrentDied   string
	RequestedDied string
}

// CanRecordDeath evaluates whether a death date can be set.
// Rules:
// - Died must be a real calendar date
// - Died must not be before born
// - A different real death date already on record is a conflict
func CanRecordDeath(ctx RecordDeathContext) GuardResult {
	if err := calendar.Check(ctx.RequestedDied); err != nil {
		return deny(outcome.KindValidation, "died: %v", err)
	}
	if !calendar.NotBefore(ctx.RequestedDied, ctx.Born) {
		return deny(outcome.KindValidation, "member %d cannot die on %s before being born on %s", ctx.MemberID, ctx.RequestedDied, ctx.Born)
	}
	if IsDeceased(ctx.CurrentDied) && ctx.CurrentDied != ctx.RequestedDied {
		return deny(outcome.KindConflict, "member %d already has death date %s", ctx.MemberID, ctx.CurrentDied)
	}
	return GuardResult{Allowed: true}
}
