package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/secondary"
)

const memberColumns = "m.id, m.name, m.family_id, m.alias, m.email, m.url, CAST(m.born AS TEXT), CAST(m.died AS TEXT), m.sex, m.gen_order, m.dad_id, m.mom_id, m.created_at, m.updated_at"

// MemberRepository implements secondary.MemberRepository with SQLite.
type MemberRepository struct {
	db Querier
}

// NewMemberRepository creates a new SQLite member repository.
func NewMemberRepository(db Querier) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create persists a new member and returns its ID.
func (r *MemberRepository) Create(ctx context.Context, member *secondary.MemberRecord) (int64, error) {
	born := member.Born
	if born == "" {
		born = "0000-01-01"
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO members (name, family_id, alias, email, url, born, died, sex, gen_order, dad_id, mom_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		member.Name,
		nullInt(member.FamilyID),
		nullString(member.Alias),
		nullString(member.Email),
		nullString(member.URL),
		born,
		nullString(member.Died),
		nullString(member.Sex),
		member.GenOrder,
		nullInt(member.DadID),
		nullInt(member.MomID),
	)
	if err != nil {
		return 0, classify(err, "failed to create member %q", member.Name)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, outcome.Storage(err, "failed to read new member id")
	}
	return id, nil
}

// GetByID retrieves a member by its ID.
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*secondary.MemberRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members m WHERE m.id = ?", id)
	record, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, outcome.NotFound("member %d not found", id)
	}
	if err != nil {
		return nil, outcome.Storage(err, "failed to get member %d", id)
	}
	return record, nil
}

// GetMany retrieves the members with the given IDs, ordered by ID.
func (r *MemberRepository) GetMany(ctx context.Context, ids []int64) ([]*secondary.MemberRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + memberColumns + " FROM members m WHERE m.id IN (" + placeholders(len(ids)) + ") ORDER BY m.id"
	return r.query(ctx, query, idArgs(ids)...)
}

// Search returns every member matching all non-empty query fields.
func (r *MemberRepository) Search(ctx context.Context, q secondary.MemberQuery) ([]*secondary.MemberRecord, error) {
	query := "SELECT " + memberColumns + " FROM members m WHERE 1=1"
	args := []any{}

	if q.Name != "" {
		query += " AND m.name = ?"
		args = append(args, q.Name)
	}
	if q.Born != "" {
		query += " AND m.born = ?"
		args = append(args, q.Born)
	}
	if q.GenOrder != nil {
		query += " AND m.gen_order = ?"
		args = append(args, *q.GenOrder)
	}
	if q.Dad != "" {
		query += " AND EXISTS (SELECT 1 FROM members d WHERE d.id = m.dad_id AND d.name = ?)"
		args = append(args, q.Dad)
	}
	if q.Mom != "" {
		query += " AND EXISTS (SELECT 1 FROM members d WHERE d.id = m.mom_id AND d.name = ?)"
		args = append(args, q.Mom)
	}
	if q.Spouse != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM relations r
			JOIN members s ON s.id = CASE WHEN r.member_id = m.id THEN r.partner_id ELSE r.member_id END
			WHERE (r.member_id = m.id OR r.partner_id = m.id)
			  AND r.relation LIKE 'spouse%'
			  AND s.name = ?)`
		args = append(args, q.Spouse)
	}

	query += " ORDER BY m.gen_order, m.born, m.id"
	return r.query(ctx, query, args...)
}

// List retrieves members ordered by generation then birth date.
func (r *MemberRepository) List(ctx context.Context, filters secondary.MemberFilters) ([]*secondary.MemberRecord, error) {
	query := "SELECT " + memberColumns + " FROM members m WHERE 1=1"
	args := []any{}

	if filters.GenBegin != nil {
		query += " AND m.gen_order >= ?"
		args = append(args, *filters.GenBegin)
	}
	if filters.GenEnd != nil {
		query += " AND m.gen_order <= ?"
		args = append(args, *filters.GenEnd)
	}
	if filters.FamilyID != 0 {
		query += " AND m.family_id = ?"
		args = append(args, filters.FamilyID)
	}

	query += " ORDER BY m.gen_order, m.born, m.id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.query(ctx, query, args...)
}

// Update writes only the non-nil fields of patch.
func (r *MemberRepository) Update(ctx context.Context, id int64, patch secondary.MemberPatch) error {
	var sets []string
	var args []any

	for col, v := range map[string]*string{
		"alias": patch.Alias,
		"email": patch.Email,
		"url":   patch.URL,
		"died":  patch.Died,
		"sex":   patch.Sex,
	} {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, nullString(*v))
		}
	}
	for col, v := range map[string]*int64{
		"family_id": patch.FamilyID,
		"dad_id":    patch.DadID,
		"mom_id":    patch.MomID,
	} {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, nullInt(*v))
		}
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE members SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err, "failed to update member %d", id)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return outcome.NotFound("member %d not found", id)
	}
	return nil
}

// Count returns the number of stored members.
func (r *MemberRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members").Scan(&n); err != nil {
		return 0, outcome.Storage(err, "failed to count members")
	}
	return n, nil
}

func (r *MemberRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.MemberRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, outcome.Storage(err, "failed to query members")
	}
	defer rows.Close()

	var members []*secondary.MemberRecord
	for rows.Next() {
		record, err := scanMember(rows)
		if err != nil {
			return nil, outcome.Storage(err, "failed to scan member")
		}
		members = append(members, record)
	}
	if err := rows.Err(); err != nil {
		return nil, outcome.Storage(err, "failed to iterate members")
	}
	return members, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(s scanner) (*secondary.MemberRecord, error) {
	var (
		familyID  sql.NullInt64
		born      sql.NullString
		genOrder  sql.NullInt64
		alias     sql.NullString
		email     sql.NullString
		url       sql.NullString
		died      sql.NullString
		sex       sql.NullString
		dadID     sql.NullInt64
		momID     sql.NullInt64
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	record := &secondary.MemberRecord{}
	err := s.Scan(&record.ID, &record.Name, &familyID, &alias, &email, &url, &born, &died, &sex,
		&genOrder, &dadID, &momID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.FamilyID = familyID.Int64
	record.Born = born.String
	if record.Born == "" {
		record.Born = "0000-01-01"
	}
	record.GenOrder = int(genOrder.Int64)
	record.Alias = alias.String
	record.Email = email.String
	record.URL = url.String
	record.Died = died.String
	record.Sex = sex.String
	record.DadID = dadID.Int64
	record.MomID = momID.Int64
	record.CreatedAt = formatTime(createdAt.Time)
	record.UpdatedAt = formatTime(updatedAt.Time)
	return record, nil
}

// Ensure MemberRepository implements the interface
var _ secondary.MemberRepository = (*MemberRepository)(nil)
