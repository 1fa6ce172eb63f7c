// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/secondary"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories use, so the
// same repository code runs inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements secondary.Transactor over one SQLite database.
type Store struct {
	db *sql.DB
	q  Querier
	tx *sql.Tx
}

// NewStore creates a store whose repositories run directly on db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// Members returns the member repository bound to this unit of work.
func (s *Store) Members() secondary.MemberRepository { return NewMemberRepository(s.q) }

// Relations returns the relation repository bound to this unit of work.
func (s *Store) Relations() secondary.RelationRepository { return NewRelationRepository(s.q) }

// Mirrors returns the mirror repository bound to this unit of work.
func (s *Store) Mirrors() secondary.MirrorRepository { return NewMirrorRepository(s.q) }

// Log returns an event log writer bound to this unit of work.
func (s *Store) Log() secondary.LogWriter {
	return NewLogWriterAdapter(NewEventLogRepository(s.q))
}

// WithinTx runs fn in a transaction. fn's error, or a failed commit, rolls
// everything back. Calling WithinTx on a transactional store joins the
// existing transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx secondary.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return outcome.Storage(err, "begin transaction")
	}

	if err := fn(ctx, &Store{db: s.db, q: tx, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, outcome.Storage(rbErr, "rollback"))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return outcome.Storage(err, "commit transaction")
	}
	return nil
}

var savepointName = regexp.MustCompile(`[^a-z0-9_]+`)

// Savepoint isolates fn's writes inside the current transaction.
func (s *Store) Savepoint(ctx context.Context, name string, fn func() error) error {
	if s.tx == nil {
		return fn()
	}

	name = "sp_" + savepointName.ReplaceAllString(strings.ToLower(name), "_")
	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return outcome.Storage(err, "open savepoint %s", name)
	}

	if err := fn(); err != nil {
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO "+name); rbErr != nil {
			return errors.Join(err, outcome.Storage(rbErr, "rollback to savepoint %s", name))
		}
		if _, relErr := s.tx.ExecContext(ctx, "RELEASE "+name); relErr != nil {
			return errors.Join(err, outcome.Storage(relErr, "release savepoint %s", name))
		}
		return err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE "+name); err != nil {
		return outcome.Storage(err, "release savepoint %s", name)
	}
	return nil
}

// classify turns driver constraint failures into typed outcomes.
func classify(err error, format string, args ...any) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &outcome.Error{Kind: outcome.KindConflict, Detail: fmt.Sprintf(format, args...), Err: err}
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return &outcome.Error{Kind: outcome.KindValidation, Detail: fmt.Sprintf(format, args...), Err: err}
		}
	}
	return outcome.Storage(err, format, args...)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int64) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

var (
	_ secondary.Transactor = (*Store)(nil)
	_ Querier              = (*sql.DB)(nil)
	_ Querier              = (*sql.Tx)(nil)
)
