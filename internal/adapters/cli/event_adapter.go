package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/kin/internal/ports/primary"
)

// EventAdapter translates life-event commands to LifeEventService calls.
type EventAdapter struct {
	service primary.LifeEventService
	out     io.Writer
}

// NewEventAdapter creates a new EventAdapter.
func NewEventAdapter(service primary.LifeEventService, out io.Writer) *EventAdapter {
	return &EventAdapter{
		service: service,
		out:     out,
	}
}

// Birth records a birth.
func (a *EventAdapter) Birth(ctx context.Context, req primary.BirthRequest) (*primary.BirthResponse, error) {
	resp, err := a.service.Birth(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Birth recorded: %s (#%d), generation %d\n", okMark, req.Child.Name, resp.MemberID, resp.GenOrder)
	for _, id := range resp.RelationIDs {
		fmt.Fprintf(a.out, "  parent relation #%d\n", id)
	}
	if resp.NeedsReview {
		fmt.Fprintf(a.out, "%s No parent given; member #%d needs review\n", warnMark, resp.MemberID)
	}
	return resp, nil
}

// Death records a death and reports the relations it ended.
func (a *EventAdapter) Death(ctx context.Context, req primary.DeathRequest) (*primary.DeathResponse, error) {
	resp, err := a.service.Death(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Death recorded for #%d on %s\n", okMark, resp.MemberID, req.Died)
	fmt.Fprintf(a.out, "  ended %d relation(s) %v\n", len(resp.EndedRelationIDs), resp.EndedRelationIDs)
	for _, s := range resp.Skipped {
		fmt.Fprintf(a.out, "%s relation #%d left ongoing: %s\n", warnMark, s.RelationID, s.Reason)
	}
	if resp.AccountDeactivated {
		fmt.Fprintln(a.out, "  account deactivated")
	}
	return resp, nil
}

// Marry registers a partnership.
func (a *EventAdapter) Marry(ctx context.Context, req primary.MarriageRequest) (*primary.MarriageResponse, error) {
	resp, err := a.service.Marry(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Marriage recorded: #%d and #%d (relation #%d)\n", okMark, req.MemberID, resp.PartnerID, resp.RelationID)
	if resp.PartnerCreated {
		fmt.Fprintf(a.out, "  partner %s created as #%d\n", req.Partner.Name, resp.PartnerID)
	}
	return resp, nil
}

// Divorce ends a partnership.
func (a *EventAdapter) Divorce(ctx context.Context, req primary.DivorceRequest) (*primary.DivorceResponse, error) {
	resp, err := a.service.Divorce(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Relation #%d is now %q, ended %s\n", okMark, resp.RelationID, resp.Type, req.Ended)
	return resp, nil
}

// Adopt records an adoption.
func (a *EventAdapter) Adopt(ctx context.Context, req primary.AdoptionRequest) (*primary.AdoptionResponse, error) {
	resp, err := a.service.Adopt(ctx, req)
	if err != nil {
		return nil, err
	}

	verb := "Adoption recorded for"
	if resp.ChildCreated {
		verb = "Adopted child created as"
	}
	fmt.Fprintf(a.out, "%s %s #%d, relations %v\n", okMark, verb, resp.ChildID, resp.RelationIDs)
	return resp, nil
}

// Step records a step-parent tie.
func (a *EventAdapter) Step(ctx context.Context, req primary.StepRequest) (*primary.StepResponse, error) {
	resp, err := a.service.AddStepParent(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s #%d has step parent #%d from %s (relation #%d)\n", okMark, req.ChildID, req.ParentID, req.Joined, resp.RelationID)
	return resp, nil
}
