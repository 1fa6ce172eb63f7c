package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/secondary"
)

const accountColumns = "id, email, is_active, role, family_id, member_id, password_hash, created_at, updated_at"

// AccountRepository implements secondary.AccountRepository with SQLite.
type AccountRepository struct {
	db Querier
}

// NewAccountRepository creates a new SQLite account repository.
func NewAccountRepository(db Querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create persists a new account.
func (r *AccountRepository) Create(ctx context.Context, account *secondary.AccountRecord) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, is_active, role, family_id, member_id, password_hash) VALUES (?, ?, ?, ?, ?, ?)`,
		account.Email,
		account.State,
		account.Role,
		nullInt(account.FamilyID),
		nullInt(account.MemberID),
		nullString(account.PasswordHash),
	)
	if err != nil {
		return 0, classify(err, "failed to create account %s", account.Email)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, outcome.Storage(err, "failed to read new account id")
	}
	return id, nil
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*secondary.AccountRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM users WHERE email = ?", email)
	record, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, outcome.NotFound("account %s not found", email)
	}
	if err != nil {
		return nil, outcome.Storage(err, "failed to get account %s", email)
	}
	return record, nil
}

// List retrieves accounts matching the given filters.
func (r *AccountRepository) List(ctx context.Context, filters secondary.AccountFilters) ([]*secondary.AccountRecord, error) {
	query := "SELECT " + accountColumns + " FROM users WHERE 1=1"
	args := []any{}

	if filters.State != nil {
		query += " AND is_active = ?"
		args = append(args, *filters.State)
	}

	if filters.Role != nil {
		query += " AND role = ?"
		args = append(args, *filters.Role)
	}

	query += " ORDER BY email"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, outcome.Storage(err, "failed to list accounts")
	}
	defer rows.Close()

	var accounts []*secondary.AccountRecord
	for rows.Next() {
		record, err := scanAccount(rows)
		if err != nil {
			return nil, outcome.Storage(err, "failed to scan account")
		}
		accounts = append(accounts, record)
	}
	if err := rows.Err(); err != nil {
		return nil, outcome.Storage(err, "failed to iterate accounts")
	}
	return accounts, nil
}

// SetState changes an account's activation state.
func (r *AccountRepository) SetState(ctx context.Context, email string, state int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?",
		state, email)
	if err != nil {
		return false, classify(err, "failed to update account %s", email)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, outcome.Storage(err, "failed to read affected rows")
	}
	return n > 0, nil
}

// DeactivateAccount marks the account inactive. A missing account reports
// false without error.
func (r *AccountRepository) DeactivateAccount(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	return r.SetState(ctx, email, -1)
}

func scanAccount(s scanner) (*secondary.AccountRecord, error) {
	var (
		familyID     sql.NullInt64
		memberID     sql.NullInt64
		passwordHash sql.NullString
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	record := &secondary.AccountRecord{}
	err := s.Scan(&record.ID, &record.Email, &record.State, &record.Role, &familyID, &memberID,
		&passwordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.FamilyID = familyID.Int64
	record.MemberID = memberID.Int64
	record.PasswordHash = passwordHash.String
	record.CreatedAt = formatTime(createdAt.Time)
	record.UpdatedAt = formatTime(updatedAt.Time)
	return record, nil
}

// Ensure AccountRepository implements the interfaces
var (
	_ secondary.AccountRepository  = (*AccountRepository)(nil)
	_ secondary.AccountDeactivator = (*AccountRepository)(nil)
)
