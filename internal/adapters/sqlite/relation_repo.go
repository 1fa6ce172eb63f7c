package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ports/secondary"
)

// Dates are cast to TEXT because legacy tables declare them as DATE, which
// the driver would otherwise parse into time values.
const relationColumns = "id, member_id, partner_id, relation, CAST(join_date AS TEXT), CAST(end_date AS TEXT), original_name, original_family_id, created_at, updated_at"

// ongoingClause matches NULL and the legacy open-end markers.
const ongoingClause = "(end_date IS NULL OR end_date IN ('', '0000-00-00'))"

// RelationRepository implements secondary.RelationRepository with SQLite.
type RelationRepository struct {
	db Querier
}

// NewRelationRepository creates a new SQLite relation repository.
func NewRelationRepository(db Querier) *RelationRepository {
	return &RelationRepository{db: db}
}

// Create persists a new ongoing relation. The store's partial unique index
// rejects a second ongoing row for the same triple.
func (r *RelationRepository) Create(ctx context.Context, rel *secondary.RelationRecord) (int64, error) {
	join := rel.JoinDate
	if join == "" {
		join = "0000-01-01"
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO relations (member_id, partner_id, relation, join_date, end_date, original_name, original_family_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rel.MemberID,
		rel.PartnerID,
		rel.Relation,
		join,
		nullString(rel.EndDate),
		nullString(rel.OriginalName),
		nullInt(rel.OriginalFamilyID),
	)
	if err != nil {
		return 0, classify(err, "failed to create %q relation between members %d and %d", rel.Relation, rel.MemberID, rel.PartnerID)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, outcome.Storage(err, "failed to read new relation id")
	}
	return id, nil
}

// GetByID retrieves a relation by its ID.
func (r *RelationRepository) GetByID(ctx context.Context, id int64) (*secondary.RelationRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+relationColumns+" FROM relations WHERE id = ?", id)
	record, err := scanRelation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, outcome.NotFound("relation %d not found", id)
	}
	if err != nil {
		return nil, outcome.Storage(err, "failed to get relation %d", id)
	}
	return record, nil
}

// ListInvolving returns relations with the member on either side.
func (r *RelationRepository) ListInvolving(ctx context.Context, memberID int64) ([]*secondary.RelationRecord, error) {
	return r.query(ctx,
		"SELECT "+relationColumns+" FROM relations WHERE member_id = ? OR partner_id = ? ORDER BY join_date, id",
		memberID, memberID)
}

// ListBetween returns relations between two members in either direction.
func (r *RelationRepository) ListBetween(ctx context.Context, a, b int64) ([]*secondary.RelationRecord, error) {
	return r.query(ctx,
		"SELECT "+relationColumns+" FROM relations WHERE (member_id = ? AND partner_id = ?) OR (member_id = ? AND partner_id = ?) ORDER BY join_date, id",
		a, b, b, a)
}

// End sets the end date and type of an ongoing relation.
func (r *RelationRepository) End(ctx context.Context, id int64, endDate, relationType string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE relations SET end_date = ?, relation = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND "+ongoingClause,
		endDate, relationType, id)
	if err != nil {
		return classify(err, "failed to end relation %d", id)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return outcome.Conflict("relation %d already ended on %s", id, existing.EndDate)
	}
	return nil
}

// Parents maps each ID to its parents.
func (r *RelationRepository) Parents(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	if len(ids) == 0 {
		return map[int64][]int64{}, nil
	}
	in := placeholders(len(ids))
	parentTypes, childTypes := typesOf(relation.FamilyParent), typesOf(relation.FamilyChild)

	query := `
		SELECT member_id, partner_id FROM relations WHERE member_id IN (` + in + `) AND relation IN (` + placeholders(len(parentTypes)) + `)
		UNION
		SELECT partner_id, member_id FROM relations WHERE partner_id IN (` + in + `) AND relation IN (` + placeholders(len(childTypes)) + `)
		UNION
		SELECT id, dad_id FROM members WHERE id IN (` + in + `) AND dad_id IS NOT NULL
		UNION
		SELECT id, mom_id FROM members WHERE id IN (` + in + `) AND mom_id IS NOT NULL
		ORDER BY 1, 2`

	var args []any
	args = append(args, idArgs(ids)...)
	args = append(args, parentTypes...)
	args = append(args, idArgs(ids)...)
	args = append(args, childTypes...)
	args = append(args, idArgs(ids)...)
	args = append(args, idArgs(ids)...)

	return r.edges(ctx, query, args...)
}

// Children maps each ID to its children.
func (r *RelationRepository) Children(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	if len(ids) == 0 {
		return map[int64][]int64{}, nil
	}
	in := placeholders(len(ids))
	parentTypes, childTypes := typesOf(relation.FamilyParent), typesOf(relation.FamilyChild)

	query := `
		SELECT partner_id, member_id FROM relations WHERE partner_id IN (` + in + `) AND relation IN (` + placeholders(len(parentTypes)) + `)
		UNION
		SELECT member_id, partner_id FROM relations WHERE member_id IN (` + in + `) AND relation IN (` + placeholders(len(childTypes)) + `)
		UNION
		SELECT dad_id, id FROM members WHERE dad_id IN (` + in + `)
		UNION
		SELECT mom_id, id FROM members WHERE mom_id IN (` + in + `)
		ORDER BY 1, 2`

	var args []any
	args = append(args, idArgs(ids)...)
	args = append(args, parentTypes...)
	args = append(args, idArgs(ids)...)
	args = append(args, childTypes...)
	args = append(args, idArgs(ids)...)
	args = append(args, idArgs(ids)...)

	return r.edges(ctx, query, args...)
}

// Count returns the number of stored relations.
func (r *RelationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM relations").Scan(&n); err != nil {
		return 0, outcome.Storage(err, "failed to count relations")
	}
	return n, nil
}

func (r *RelationRepository) edges(ctx context.Context, query string, args ...any) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, outcome.Storage(err, "failed to query lineage edges")
	}
	defer rows.Close()

	out := map[int64][]int64{}
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, outcome.Storage(err, "failed to scan lineage edge")
		}
		out[from] = append(out[from], to)
	}
	if err := rows.Err(); err != nil {
		return nil, outcome.Storage(err, "failed to iterate lineage edges")
	}
	return out, nil
}

func (r *RelationRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.RelationRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, outcome.Storage(err, "failed to query relations")
	}
	defer rows.Close()

	var relations []*secondary.RelationRecord
	for rows.Next() {
		record, err := scanRelation(rows)
		if err != nil {
			return nil, outcome.Storage(err, "failed to scan relation")
		}
		relations = append(relations, record)
	}
	if err := rows.Err(); err != nil {
		return nil, outcome.Storage(err, "failed to iterate relations")
	}
	return relations, nil
}

func scanRelation(s scanner) (*secondary.RelationRecord, error) {
	var (
		joinDate         sql.NullString
		endDate          sql.NullString
		originalName     sql.NullString
		originalFamilyID sql.NullInt64
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	record := &secondary.RelationRecord{}
	err := s.Scan(&record.ID, &record.MemberID, &record.PartnerID, &record.Relation, &joinDate, &endDate,
		&originalName, &originalFamilyID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.JoinDate = joinDate.String
	if record.JoinDate == "" {
		record.JoinDate = "0000-01-01"
	}
	if endDate.String != "0000-00-00" {
		record.EndDate = endDate.String
	}
	record.OriginalName = originalName.String
	record.OriginalFamilyID = originalFamilyID.Int64
	record.CreatedAt = formatTime(createdAt.Time)
	record.UpdatedAt = formatTime(updatedAt.Time)
	return record, nil
}

func typesOf(family relation.Family) []any {
	var out []any
	for _, t := range relation.AllTypes() {
		if t.Family() == family {
			out = append(out, string(t))
		}
	}
	return out
}

// Ensure RelationRepository implements the interface
var _ secondary.RelationRepository = (*RelationRepository)(nil)
