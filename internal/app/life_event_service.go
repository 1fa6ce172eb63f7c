package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/example/kin/internal/core/identity"
	"github.com/example/kin/internal/core/lineage"
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// LifeEventServiceImpl implements the LifeEventService interface. Every
// event runs in one transaction and re-reads what its guards need inside it.
type LifeEventServiceImpl struct {
	store       secondary.Transactor
	deactivator secondary.AccountDeactivator
	logger      *slog.Logger
}

// NewLifeEventService creates a new LifeEventService with injected
// dependencies. deactivator may be nil when accounts are not managed.
func NewLifeEventService(store secondary.Transactor, deactivator secondary.AccountDeactivator, logger *slog.Logger) *LifeEventServiceImpl {
	return &LifeEventServiceImpl{
		store:       store,
		deactivator: deactivator,
		logger:      logger,
	}
}

// Birth creates the child and one parent relation per known parent.
func (s *LifeEventServiceImpl) Birth(ctx context.Context, req primary.BirthRequest) (*primary.BirthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.DadID != 0 && req.DadID == req.MomID {
		return nil, outcome.Validation("dad and mom cannot both be member %d", req.DadID)
	}

	resp := &primary.BirthResponse{NeedsReview: req.DadID == 0 && req.MomID == 0}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		parents, err := loadMembers(ctx, tx, req.DadID, req.MomID)
		if err != nil {
			return err
		}

		gen, result := lineage.DeriveGeneration(req.Child.GenOrder, generations(parents))
		if err := result.Error(); err != nil {
			return err
		}
		resp.GenOrder = gen

		childID, err := createMember(ctx, tx, req.Child, gen)
		if err != nil {
			return err
		}
		resp.MemberID = childID

		patch := secondary.MemberPatch{}
		if req.DadID != 0 {
			patch.DadID = &req.DadID
		}
		if req.MomID != 0 {
			patch.MomID = &req.MomID
		}
		if err := tx.Members().Update(ctx, childID, patch); err != nil {
			return err
		}

		child, err := tx.Members().GetByID(ctx, childID)
		if err != nil {
			return err
		}
		for _, p := range parents {
			id, err := createRelation(ctx, tx, relation.CreateRelationContext{
				MemberID:  childID,
				PartnerID: p.ID,
				Type:      relation.Parent,
				JoinDate:  child.Born,
			})
			if err != nil {
				return err
			}
			resp.RelationIDs = append(resp.RelationIDs, id)
		}

		return tx.Log().LogEvent(ctx, "birth", "member", strconv.FormatInt(childID, 10),
			fmt.Sprintf("%s born %s, generation %d", child.Name, child.Born, gen))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("birth recorded",
		"event", "birth",
		"member_id", resp.MemberID,
		"gen_order", resp.GenOrder,
		"relation_ids", resp.RelationIDs,
		"needs_review", resp.NeedsReview)
	return resp, nil
}

// Death sets the death date and ends the member's ongoing relations. The
// member's account is deactivated once the transaction has committed.
func (s *LifeEventServiceImpl) Death(ctx context.Context, req primary.DeathRequest) (*primary.DeathResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	resp := &primary.DeathResponse{MemberID: req.MemberID}
	var email string
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		m, err := tx.Members().GetByID(ctx, req.MemberID)
		if err != nil {
			return err
		}
		email = m.Email

		guard := member.CanRecordDeath(member.RecordDeathContext{
			MemberID:      m.ID,
			Born:          m.Born,
			CurrentDied:   m.Died,
			RequestedDied: req.Died,
		})
		if err := guard.Error(); err != nil {
			return err
		}
		if err := tx.Members().Update(ctx, m.ID, secondary.MemberPatch{Died: &req.Died}); err != nil {
			return err
		}

		involving, err := tx.Relations().ListInvolving(ctx, m.ID)
		if err != nil {
			return err
		}
		plan := relation.PlanDeathEndings(m.ID, req.Died, toSummaries(involving))
		for _, r := range plan.End {
			if err := tx.Relations().End(ctx, r.ID, req.Died, string(r.Type)); err != nil {
				return err
			}
			resp.EndedRelationIDs = append(resp.EndedRelationIDs, r.ID)
		}
		for _, sk := range plan.Skipped {
			resp.Skipped = append(resp.Skipped, primary.SkippedRelation{RelationID: sk.Relation.ID, Reason: sk.Reason})
		}

		return tx.Log().LogEvent(ctx, "death", "member", strconv.FormatInt(m.ID, 10),
			fmt.Sprintf("died %s, ended %d relations", req.Died, len(resp.EndedRelationIDs)))
	})
	if err != nil {
		return nil, err
	}

	if email != "" && s.deactivator != nil {
		ok, err := s.deactivator.DeactivateAccount(ctx, email)
		if err != nil {
			s.logger.Warn("account deactivation failed", "member_id", req.MemberID, "email", email, "error", err)
		}
		resp.AccountDeactivated = ok
	}

	s.logger.Info("death recorded",
		"event", "death",
		"member_id", req.MemberID,
		"ended_relation_ids", resp.EndedRelationIDs,
		"skipped", len(resp.Skipped))
	return resp, nil
}

// Marry registers an ongoing partnership. The partner is an existing member
// or is resolved by natural key, and created when no member matches.
func (s *LifeEventServiceImpl) Marry(ctx context.Context, req primary.MarriageRequest) (*primary.MarriageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	kind := relation.Spouse
	if req.Type != "" {
		t, err := relation.ParseType(req.Type)
		if err != nil {
			return nil, outcome.Validation("%v", err)
		}
		kind = t
	}
	if !kind.IsPartnership() {
		return nil, outcome.Validation("%q is not a partnership type", kind)
	}

	resp := &primary.MarriageResponse{PartnerID: req.PartnerID}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		m, err := tx.Members().GetByID(ctx, req.MemberID)
		if err != nil {
			return err
		}

		if resp.PartnerID != 0 {
			if _, err := tx.Members().GetByID(ctx, resp.PartnerID); err != nil {
				return err
			}
		} else {
			gen := m.GenOrder
			if req.Partner.GenOrder != nil {
				gen = *req.Partner.GenOrder
			}
			q := identity.Query{Name: req.Partner.Name, Born: req.Partner.Born, GenOrder: &gen}
			id, err := resolveOne(ctx, tx.Members(), q)
			switch {
			case err == nil:
				resp.PartnerID = id
			case outcome.Is(err, outcome.KindNotFound):
				id, err := createMember(ctx, tx, *req.Partner, gen)
				if err != nil {
					return err
				}
				resp.PartnerID = id
				resp.PartnerCreated = true
			default:
				return err
			}
		}

		id, err := createRelation(ctx, tx, relation.CreateRelationContext{
			MemberID:  m.ID,
			PartnerID: resp.PartnerID,
			Type:      kind,
			JoinDate:  req.Married,
		})
		if err != nil {
			return err
		}
		resp.RelationID = id

		return tx.Log().LogEvent(ctx, "marriage", "relation", strconv.FormatInt(id, 10),
			fmt.Sprintf("%d %s %d on %s", m.ID, kind, resp.PartnerID, req.Married))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("marriage recorded",
		"event", "marriage",
		"member_id", req.MemberID,
		"partner_id", resp.PartnerID,
		"relation_id", resp.RelationID,
		"partner_created", resp.PartnerCreated)
	return resp, nil
}

// Divorce ends the single ongoing partnership between two members and
// reclassifies it as divorced or separated.
func (s *LifeEventServiceImpl) Divorce(ctx context.Context, req primary.DivorceRequest) (*primary.DivorceResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	newType := relation.Type(req.Type)
	if !strings.HasPrefix(req.Type, "spouse ") {
		newType = relation.Type("spouse " + req.Type)
	}

	resp := &primary.DivorceResponse{Type: string(newType)}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		if _, err := loadMembers(ctx, tx, req.MemberID, req.PartnerID); err != nil {
			return err
		}

		between, err := tx.Relations().ListBetween(ctx, req.MemberID, req.PartnerID)
		if err != nil {
			return err
		}
		target, guard := relation.PlanPartnershipEnd(relation.EndPartnershipContext{
			MemberID:  req.MemberID,
			PartnerID: req.PartnerID,
			NewType:   newType,
			EndDate:   req.Ended,
			Between:   toSummaries(between),
		})
		if err := guard.Error(); err != nil {
			return err
		}

		if err := tx.Relations().End(ctx, target.ID, req.Ended, string(newType)); err != nil {
			return err
		}
		resp.RelationID = target.ID

		return tx.Log().LogEvent(ctx, "divorce", "relation", strconv.FormatInt(target.ID, 10),
			fmt.Sprintf("%s on %s", newType, req.Ended))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("partnership ended",
		"event", "divorce",
		"member_id", req.MemberID,
		"partner_id", req.PartnerID,
		"relation_id", resp.RelationID,
		"type", resp.Type)
	return resp, nil
}

// Adopt records adoptive parent relations for an existing or new child.
// The adoption date is always required.
func (s *LifeEventServiceImpl) Adopt(ctx context.Context, req primary.AdoptionRequest) (*primary.AdoptionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	parentType, err := relation.AdoptionKind(req.Kind).ParentType()
	if err != nil {
		return nil, outcome.Validation("%v", err)
	}
	if len(req.ParentIDs) == 2 && req.ParentIDs[0] == req.ParentIDs[1] {
		return nil, outcome.Validation("adoptive parents must differ, got %d twice", req.ParentIDs[0])
	}

	resp := &primary.AdoptionResponse{ChildID: req.ChildID}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		parents, err := loadMembers(ctx, tx, req.ParentIDs...)
		if err != nil {
			return err
		}

		if resp.ChildID != 0 {
			if _, err := tx.Members().GetByID(ctx, resp.ChildID); err != nil {
				return err
			}
		} else {
			gen, result := lineage.DeriveGeneration(req.Child.GenOrder, generations(parents))
			if err := result.Error(); err != nil {
				return err
			}
			id, err := createMember(ctx, tx, *req.Child, gen)
			if err != nil {
				return err
			}
			resp.ChildID = id
			resp.ChildCreated = true
		}

		for _, p := range parents {
			id, err := createRelation(ctx, tx, relation.CreateRelationContext{
				MemberID:        resp.ChildID,
				PartnerID:       p.ID,
				Type:            parentType,
				JoinDate:        req.Adopted,
				RequireJoinDate: true,
			})
			if err != nil {
				return err
			}
			resp.RelationIDs = append(resp.RelationIDs, id)
		}

		return tx.Log().LogEvent(ctx, "adoption", "member", strconv.FormatInt(resp.ChildID, 10),
			fmt.Sprintf("%s by %v on %s", parentType, req.ParentIDs, req.Adopted))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("adoption recorded",
		"event", "adoption",
		"member_id", resp.ChildID,
		"relation_ids", resp.RelationIDs,
		"child_created", resp.ChildCreated)
	return resp, nil
}

// AddStepParent records a step-parent tie. It implies no other linkage.
func (s *LifeEventServiceImpl) AddStepParent(ctx context.Context, req primary.StepRequest) (*primary.StepResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	resp := &primary.StepResponse{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		if _, err := loadMembers(ctx, tx, req.ChildID, req.ParentID); err != nil {
			return err
		}

		id, err := createRelation(ctx, tx, relation.CreateRelationContext{
			MemberID:        req.ChildID,
			PartnerID:       req.ParentID,
			Type:            relation.ParentStep,
			JoinDate:        req.Joined,
			RequireJoinDate: true,
		})
		if err != nil {
			return err
		}
		resp.RelationID = id

		return tx.Log().LogEvent(ctx, "step", "relation", strconv.FormatInt(id, 10),
			fmt.Sprintf("%d has step parent %d from %s", req.ChildID, req.ParentID, req.Joined))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("step parent recorded",
		"event", "step",
		"member_id", req.ChildID,
		"parent_id", req.ParentID,
		"relation_id", resp.RelationID)
	return resp, nil
}

// createRelation re-reads the relations between the pair inside the
// transaction, runs the creation guard and writes the ongoing row.
func createRelation(ctx context.Context, tx secondary.Store, rc relation.CreateRelationContext) (int64, error) {
	between, err := tx.Relations().ListBetween(ctx, rc.MemberID, rc.PartnerID)
	if err != nil {
		return 0, err
	}
	rc.Between = toSummaries(between)
	if err := relation.CanCreateRelation(rc).Error(); err != nil {
		return 0, err
	}

	return tx.Relations().Create(ctx, &secondary.RelationRecord{
		MemberID:  rc.MemberID,
		PartnerID: rc.PartnerID,
		Relation:  string(rc.Type),
		JoinDate:  rc.JoinDate,
	})
}

// loadMembers fetches each non-zero id, failing on the first missing one.
func loadMembers(ctx context.Context, tx secondary.Store, ids ...int64) ([]*secondary.MemberRecord, error) {
	var out []*secondary.MemberRecord
	for _, id := range ids {
		if id == 0 {
			continue
		}
		m, err := tx.Members().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func generations(members []*secondary.MemberRecord) []int {
	gens := make([]int, len(members))
	for i, m := range members {
		gens[i] = m.GenOrder
	}
	return gens
}

// Ensure LifeEventServiceImpl implements the interface.
var _ primary.LifeEventService = (*LifeEventServiceImpl)(nil)
