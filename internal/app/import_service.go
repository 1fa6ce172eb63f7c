package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/example/kin/internal/core/identity"
	"github.com/example/kin/internal/core/legacy"
	"github.com/example/kin/internal/core/member"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ctxutil"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// errDryRun rolls back a completed dry run.
var errDryRun = errors.New("dry run")

// ImportServiceImpl implements the ImportService interface.
//
// A run stages every normalized row into the mirror table and then makes
// three passes over the staged rows: member upsert (with sex mapping),
// parent linkage and spouse linkage. The whole run is one transaction; each
// row of each pass runs in its own savepoint so a failing row is undone
// without touching the others.
type ImportServiceImpl struct {
	store  secondary.Transactor
	logger *slog.Logger
}

// NewImportService creates a new ImportService with injected dependencies.
func NewImportService(store secondary.Transactor, logger *slog.Logger) *ImportServiceImpl {
	return &ImportServiceImpl{
		store:  store,
		logger: logger,
	}
}

// importRun carries the state of one run across passes.
type importRun struct {
	tx      secondary.Store
	report  *primary.ImportReport
	logger  *slog.Logger
	members map[int]int64 // row number -> member id, for rows the member pass settled
}

// Import runs the full migration pipeline over src.
func (s *ImportServiceImpl) Import(ctx context.Context, src primary.RowSource, opts primary.ImportOptions) (*primary.ImportReport, error) {
	if err := legacy.ValidateHeader(src.Fields()); err != nil {
		return nil, err
	}

	report := &primary.ImportReport{RunID: uuid.NewString(), DryRun: opts.DryRun}
	ctx = ctxutil.WithRunID(ctx, report.RunID)
	logger := s.logger.With("run_id", report.RunID)
	logger.Info("import started", "dry_run", opts.DryRun)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx secondary.Store) error {
		run := &importRun{tx: tx, report: report, logger: logger, members: map[int]int64{}}

		rows, err := run.stage(ctx, src)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if err := run.upsertMember(ctx, r); err != nil {
				return err
			}
		}
		for _, r := range rows {
			if err := run.linkParents(ctx, r); err != nil {
				return err
			}
		}
		for _, r := range rows {
			if err := run.linkSpouse(ctx, r); err != nil {
				return err
			}
		}

		report.Imported = report.Created + report.Updated
		if err := tx.Log().LogEvent(ctx, "import", "import", report.RunID,
			fmt.Sprintf("total=%d created=%d updated=%d errors=%d skipped=%d parents=%d spouses=%d",
				report.Total, report.Created, report.Updated, report.Errors, report.Skipped,
				report.ParentsLinked, report.SpousesLinked)); err != nil {
			return err
		}

		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		logger.Error("import aborted", "error", err)
		return report, err
	}

	logger.Info("import finished",
		"total", report.Total,
		"imported", report.Imported,
		"created", report.Created,
		"updated", report.Updated,
		"errors", report.Errors,
		"skipped", report.Skipped,
		"parents_linked", report.ParentsLinked,
		"spouses_linked", report.SpousesLinked,
		"dry_run", report.DryRun)
	return report, nil
}

// stage clears the mirror table, normalizes and stores each source row,
// and returns the staged rows in source order.
func (r *importRun) stage(ctx context.Context, src primary.RowSource) ([]legacy.Row, error) {
	if err := r.tx.Mirrors().Clear(ctx); err != nil {
		return nil, err
	}

	for n := 1; ; n++ {
		raw, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		r.report.Total++
		if err != nil {
			if !outcome.Is(err, outcome.KindValidation) {
				return nil, err
			}
			r.fail(legacy.Row{Number: n}, "normalize", err)
			continue
		}

		row, err := legacy.NormalizeRow(n, raw)
		if err != nil {
			r.fail(row, "normalize", err)
			continue
		}

		err = r.tx.Savepoint(ctx, "stage_"+strconv.Itoa(n), func() error {
			_, err := r.tx.Mirrors().Insert(ctx, row.Values())
			return err
		})
		if err := r.check(row, "stage", err); err != nil {
			return nil, err
		}
	}

	staged, err := r.tx.Mirrors().List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]legacy.Row, len(staged))
	for i, m := range staged {
		rows[i] = mirrorToRow(m)
	}
	return rows, nil
}

// upsertMember creates the row's member, or updates the mutable fields of
// the single member already stored under its natural key.
func (r *importRun) upsertMember(ctx context.Context, row legacy.Row) error {
	sex := legacy.PlanSex(row)
	err := r.tx.Savepoint(ctx, "member_"+strconv.Itoa(row.Number), func() error {
		key := row.Key()
		existing, err := keyIDs(ctx, r.tx.Members(), key)
		if err != nil {
			return err
		}
		if len(existing) > 1 {
			return outcome.Ambiguous(existing, "%d members already stored as %s", len(existing), key)
		}

		died := ""
		if member.IsDeceased(row.Died) {
			died = row.Died
		}

		if len(existing) == 0 {
			guard := member.CanCreateMember(member.CreateMemberContext{Key: key})
			if err := guard.Error(); err != nil {
				return err
			}
			id, err := r.tx.Members().Create(ctx, &secondary.MemberRecord{
				Name:     key.Name,
				Alias:    row.Aka,
				URL:      row.Href,
				Born:     key.Born,
				Died:     died,
				Sex:      string(sex.Sex),
				GenOrder: key.GenOrder,
			})
			if err != nil {
				return err
			}
			r.members[row.Number] = id
			r.report.Created++
			return r.tx.Log().LogEvent(ctx, "import", "member", strconv.FormatInt(id, 10), "created from row "+strconv.Itoa(row.Number))
		}

		id := existing[0]
		current, err := r.tx.Members().GetByID(ctx, id)
		if err != nil {
			return err
		}
		patch := secondary.MemberPatch{}
		if row.Aka != "" {
			patch.Alias = &row.Aka
		}
		if row.Href != "" {
			patch.URL = &row.Href
		}
		// A real death date is never replaced by the sentinel.
		if died != "" {
			patch.Died = &died
		}
		if sex.Mapped && current.Sex == "" {
			s := string(sex.Sex)
			patch.Sex = &s
		}
		if err := r.tx.Members().Update(ctx, id, patch); err != nil {
			return err
		}
		r.members[row.Number] = id
		r.report.Updated++
		return r.tx.Log().LogEvent(ctx, "import", "member", strconv.FormatInt(id, 10), "updated from row "+strconv.Itoa(row.Number))
	})
	if err == nil && !sex.Mapped {
		// Unmapped codes never become a guess; the row is flagged for review.
		r.skip(row, "sex", sex.Reason)
	}
	return r.check(row, "member", err)
}

// linkParents resolves Dad and Mom one generation above the row and writes
// the resolved ids plus a parent relation for each.
func (r *importRun) linkParents(ctx context.Context, row legacy.Row) error {
	childID, ok := r.members[row.Number]
	if !ok || !row.HasParents() {
		return nil
	}
	parentType, ok := legacy.ParentType(row)
	if !ok {
		r.skip(row, "parents", fmt.Sprintf("relation code %d is not biological", row.Relation))
		return nil
	}

	err := r.tx.Savepoint(ctx, "parents_"+strconv.Itoa(row.Number), func() error {
		patch := secondary.MemberPatch{}
		var unresolved []string
		var linked []int64

		for _, p := range []struct {
			label, name string
			slot        **int64
		}{
			{"dad", row.Dad, &patch.DadID},
			{"mom", row.Mom, &patch.MomID},
		} {
			if member.IsPlaceholderName(p.name) {
				continue
			}
			id, err := resolveOne(ctx, r.tx.Members(), identity.ParentQuery(p.name, &row.Order))
			if err != nil {
				if outcome.KindOf(err) == outcome.KindStorage {
					return err
				}
				unresolved = append(unresolved, fmt.Sprintf("%s: %v", p.label, err))
				continue
			}
			if id == childID {
				unresolved = append(unresolved, p.label+": resolves to the member itself")
				continue
			}
			*p.slot = &id
			linked = append(linked, id)
		}

		if len(linked) == 0 {
			r.skip(row, "parents", "no parent resolved: "+strings.Join(unresolved, "; "))
			return nil
		}
		if len(unresolved) > 0 {
			r.skip(row, "parents", strings.Join(unresolved, "; "))
		}

		if err := r.tx.Members().Update(ctx, childID, patch); err != nil {
			return err
		}
		for _, parentID := range linked {
			if _, err := r.ensureRelation(ctx, childID, parentID, parentType, row.Born); err != nil {
				return err
			}
			r.report.ParentsLinked++
		}
		return nil
	})
	return r.check(row, "parents", err)
}

// linkSpouse resolves a married or together partner at the row's generation
// and writes the partnership unless an ongoing one already exists.
func (r *importRun) linkSpouse(ctx context.Context, row legacy.Row) error {
	memberID, ok := r.members[row.Number]
	if !ok || !row.HasPartner() {
		return nil
	}
	kind, _ := legacy.PartnerType(row)

	err := r.tx.Savepoint(ctx, "spouse_"+strconv.Itoa(row.Number), func() error {
		q := identity.Query{Name: row.Spouse, GenOrder: identity.Gen(row.Order)}
		spouseID, err := resolveOne(ctx, r.tx.Members(), q)
		if err != nil {
			if outcome.KindOf(err) == outcome.KindStorage {
				return err
			}
			r.skip(row, "spouse", err.Error())
			return nil
		}

		linked, err := r.ensureRelation(ctx, memberID, spouseID, kind, row.Married)
		if err != nil {
			return err
		}
		if linked {
			r.report.SpousesLinked++
		}
		return nil
	})
	return r.check(row, "spouse", err)
}

// ensureRelation creates the relation unless an ongoing one describing the
// same tie exists, which keeps re-imports idempotent. It reports whether a
// row was written.
func (r *importRun) ensureRelation(ctx context.Context, memberID, partnerID int64, t relation.Type, join string) (bool, error) {
	_, err := createRelation(ctx, r.tx, relation.CreateRelationContext{
		MemberID:  memberID,
		PartnerID: partnerID,
		Type:      t,
		JoinDate:  join,
	})
	if outcome.Is(err, outcome.KindConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// check records a row failure. Storage failures abort the run; every other
// outcome is reported and the run continues.
func (r *importRun) check(row legacy.Row, phase string, err error) error {
	if err == nil {
		return nil
	}
	if outcome.KindOf(err) == outcome.KindStorage {
		return err
	}
	switch outcome.KindOf(err) {
	case outcome.KindNotFound, outcome.KindAmbiguous:
		r.skip(row, phase, err.Error())
	default:
		r.fail(row, phase, err)
	}
	return nil
}

func (r *importRun) fail(row legacy.Row, phase string, err error) {
	r.report.Errors++
	r.report.Details = append(r.report.Details, detail(row, phase, string(outcome.KindOf(err)), err.Error()))
	r.logger.Warn("import row failed", rowAttrs(row, "phase", phase, "error", err)...)
}

func (r *importRun) skip(row legacy.Row, phase, reason string) {
	r.report.Skipped++
	r.report.Details = append(r.report.Details, detail(row, phase, "skipped", reason))
	r.logger.Info("import row skipped", rowAttrs(row, "phase", phase, "reason", reason)...)
}

func detail(row legacy.Row, phase, kind, msg string) primary.ImportDetail {
	return primary.ImportDetail{
		Row:    row.Number,
		Name:   row.Name,
		Born:   row.Born,
		Order:  row.Order,
		Phase:  phase,
		Kind:   kind,
		Detail: msg,
	}
}

func rowAttrs(row legacy.Row, extra ...any) []any {
	return append([]any{"row", row.Number, "name", row.Name, "born", row.Born, "order", row.Order}, extra...)
}

func mirrorToRow(m *secondary.MirrorRecord) legacy.Row {
	row := legacy.Row{
		Number:   m.RowNumber,
		Name:     m.Name,
		Aka:      m.Aka,
		Born:     m.Born,
		Died:     m.Died,
		Dad:      m.Dad,
		Mom:      m.Mom,
		Relation: legacy.ParentLink(m.Relation),
		Spouse:   m.Spouse,
		Married:  m.Married,
		Order:    m.GenOrder,
		Href:     m.Href,
		Status:   legacy.Status(m.Status),
	}
	if m.Sex != nil {
		sex := member.LegacySex(*m.Sex)
		row.Sex = &sex
	}
	return row
}

// Ensure ImportServiceImpl implements the interface.
var _ primary.ImportService = (*ImportServiceImpl)(nil)
