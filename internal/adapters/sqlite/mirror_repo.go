package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/secondary"
)

// mirrorColumns are the staging columns Insert may write.
var mirrorColumns = map[string]bool{
	"row_number": true,
	"name":       true,
	"aka":        true,
	"sex":        true,
	"born":       true,
	"died":       true,
	"dad":        true,
	"mom":        true,
	"relation":   true,
	"spouse":     true,
	"married":    true,
	"gen_order":  true,
	"href":       true,
	"status":     true,
}

// MirrorRepository implements secondary.MirrorRepository with SQLite.
type MirrorRepository struct {
	db Querier
}

// NewMirrorRepository creates a new SQLite mirror repository.
func NewMirrorRepository(db Querier) *MirrorRepository {
	return &MirrorRepository{db: db}
}

// Clear removes every staged row.
func (r *MirrorRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM mirrors"); err != nil {
		return outcome.Storage(err, "failed to clear mirrors")
	}
	return nil
}

// Insert stages one row, writing only the supplied columns.
func (r *MirrorRepository) Insert(ctx context.Context, values map[string]any) (int64, error) {
	cols := make([]string, 0, len(values))
	for col := range values {
		if !mirrorColumns[col] {
			return 0, outcome.Validation("unknown mirror column %q", col)
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return 0, outcome.Validation("mirror row has no values")
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = values[col]
	}

	query := "INSERT INTO mirrors (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ")"
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err, "failed to stage mirror row")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, outcome.Storage(err, "failed to read new mirror id")
	}
	return id, nil
}

// List returns staged rows in source order.
func (r *MirrorRepository) List(ctx context.Context) ([]*secondary.MirrorRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, row_number, name, aka, sex, born, died, dad, mom, relation, spouse, married, gen_order, href, status
		 FROM mirrors ORDER BY row_number, id`)
	if err != nil {
		return nil, outcome.Storage(err, "failed to list mirrors")
	}
	defer rows.Close()

	var mirrors []*secondary.MirrorRecord
	for rows.Next() {
		var (
			aka, born, died, dad, mom sql.NullString
			spouse, married, href     sql.NullString
			sex, rel, genOrder, state sql.NullInt64
		)

		record := &secondary.MirrorRecord{}
		err := rows.Scan(&record.ID, &record.RowNumber, &record.Name, &aka, &sex, &born, &died,
			&dad, &mom, &rel, &spouse, &married, &genOrder, &href, &state)
		if err != nil {
			return nil, outcome.Storage(err, "failed to scan mirror")
		}

		record.Aka = aka.String
		if sex.Valid {
			v := int(sex.Int64)
			record.Sex = &v
		}
		record.Born = born.String
		record.Died = died.String
		record.Dad = dad.String
		record.Mom = mom.String
		record.Relation = int(rel.Int64)
		record.Spouse = spouse.String
		record.Married = married.String
		record.GenOrder = int(genOrder.Int64)
		record.Href = href.String
		record.Status = int(state.Int64)

		mirrors = append(mirrors, record)
	}
	if err := rows.Err(); err != nil {
		return nil, outcome.Storage(err, "failed to iterate mirrors")
	}
	return mirrors, nil
}

// Ensure MirrorRepository implements the interface
var _ secondary.MirrorRepository = (*MirrorRepository)(nil)
