package app

import (
	"context"
	"log/slog"

	"github.com/example/kin/internal/core/lineage"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// LineageServiceImpl implements the LineageService interface.
type LineageServiceImpl struct {
	store        secondary.Store
	defaultDepth int
	logger       *slog.Logger
}

// NewLineageService creates a new LineageService. defaultDepth bounds walks
// whose request leaves a direction at zero.
func NewLineageService(store secondary.Store, defaultDepth int, logger *slog.Logger) *LineageServiceImpl {
	return &LineageServiceImpl{
		store:        store,
		defaultDepth: defaultDepth,
		logger:       logger,
	}
}

// MembersInRange lists members with genBegin <= gen_order <= genEnd.
func (s *LineageServiceImpl) MembersInRange(ctx context.Context, genBegin, genEnd int) ([]*primary.Member, error) {
	if err := lineage.ValidateRange(genBegin, genEnd); err != nil {
		return nil, err
	}

	records, err := s.store.Members().List(ctx, secondary.MemberFilters{GenBegin: &genBegin, GenEnd: &genEnd})
	if err != nil {
		return nil, err
	}
	return recordsToMembers(records), nil
}

// Lineage collects ancestors and descendants within the requested hops,
// plus the member's partners past and present.
func (s *LineageServiceImpl) Lineage(ctx context.Context, req primary.LineageRequest) (*primary.Lineage, error) {
	if req.Up < 0 || req.Down < 0 {
		return nil, outcome.Validation("lineage depth must not be negative, got up=%d down=%d", req.Up, req.Down)
	}
	up, down := req.Up, req.Down
	if up == 0 {
		up = s.defaultDepth
	}
	if down == 0 {
		down = s.defaultDepth
	}

	root, err := s.store.Members().GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	relations := s.store.Relations()
	ancestors, err := lineage.Walk(root.ID, up, func(ids []int64) (map[int64][]int64, error) {
		return relations.Parents(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	descendants, err := lineage.Walk(root.ID, down, func(ids []int64) (map[int64][]int64, error) {
		return relations.Children(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	involving, err := relations.ListInvolving(ctx, root.ID)
	if err != nil {
		return nil, err
	}
	var partnerships []relation.Summary
	for _, r := range involving {
		if sum := toSummary(r); sum.Type.Family() == relation.FamilySpouse {
			partnerships = append(partnerships, sum)
		}
	}

	ids := make([]int64, 0, len(ancestors)+len(descendants)+len(partnerships))
	for _, h := range ancestors {
		ids = append(ids, h.ID)
	}
	for _, h := range descendants {
		ids = append(ids, h.ID)
	}
	for _, p := range partnerships {
		ids = append(ids, p.Other(root.ID))
	}
	records, err := s.store.Members().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*primary.Member, len(records))
	for _, r := range records {
		byID[r.ID] = recordToMember(r)
	}

	result := &primary.Lineage{
		Root:        recordToMember(root),
		Up:          up,
		Down:        down,
		Ancestors:   entries(ancestors, byID),
		Descendants: entries(descendants, byID),
		Spouses:     []*primary.SpouseEntry{},
	}
	for _, p := range partnerships {
		m, ok := byID[p.Other(root.ID)]
		if !ok {
			continue
		}
		result.Spouses = append(result.Spouses, &primary.SpouseEntry{
			Member:   m,
			Type:     string(p.Type),
			JoinDate: p.JoinDate,
			EndDate:  p.EndDate,
		})
	}

	s.logger.Debug("lineage walked",
		"member_id", root.ID,
		"up", up,
		"down", down,
		"ancestors", len(result.Ancestors),
		"descendants", len(result.Descendants))
	return result, nil
}

func entries(hops []lineage.Hop, byID map[int64]*primary.Member) []*primary.LineageEntry {
	out := make([]*primary.LineageEntry, 0, len(hops))
	for _, h := range hops {
		if m, ok := byID[h.ID]; ok {
			out = append(out, &primary.LineageEntry{Member: m, Depth: h.Depth})
		}
	}
	return out
}

// Ensure LineageServiceImpl implements the interface.
var _ primary.LineageService = (*LineageServiceImpl)(nil)
