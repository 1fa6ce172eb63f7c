package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// Account states as stored in users.is_active.
const (
	AccountInactive = -1
	AccountPending  = 0
	AccountActive   = 1
)

var accountStates = map[int]string{
	AccountInactive: "inactive",
	AccountPending:  "pending",
	AccountActive:   "active",
}

var accountRoles = map[int]string{
	0: "member",
	1: "family-admin",
	2: "platform-admin",
}

func lookup(table map[int]string, name string) (int, bool) {
	for code, n := range table {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// AccountServiceImpl implements the AccountService interface.
type AccountServiceImpl struct {
	accountRepo secondary.AccountRepository
	logger      *slog.Logger
}

// NewAccountService creates a new AccountService with injected dependencies.
func NewAccountService(accountRepo secondary.AccountRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Register creates an active account with a bcrypt password hash.
func (s *AccountServiceImpl) Register(ctx context.Context, req primary.RegisterAccountRequest) (*primary.Account, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	role := 0
	if req.Role != "" {
		role, _ = lookup(accountRoles, req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, outcome.Validation("password: %v", err)
	}

	record := &secondary.AccountRecord{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		State:        AccountActive,
		Role:         role,
		FamilyID:     req.FamilyID,
		MemberID:     req.MemberID,
		PasswordHash: string(hash),
	}
	id, err := s.accountRepo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id

	s.logger.Info("account registered", "email", record.Email, "role", accountRoles[role])
	return recordToAccount(record), nil
}

// Verify reports whether password matches an active account. Unknown
// emails, inactive accounts and wrong passwords all report false.
func (s *AccountServiceImpl) Verify(ctx context.Context, email, password string) (bool, error) {
	record, err := s.accountRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if outcome.Is(err, outcome.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if record.State != AccountActive || record.PasswordHash == "" {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, outcome.Storage(err, "stored hash for %s is unreadable", record.Email)
	}
	return true, nil
}

// ListAccounts lists accounts with optional filters.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, filters primary.AccountFilters) ([]*primary.Account, error) {
	var f secondary.AccountFilters
	if filters.State != "" {
		state, ok := lookup(accountStates, filters.State)
		if !ok {
			return nil, outcome.Validation("unknown account state %q", filters.State)
		}
		f.State = &state
	}
	if filters.Role != "" {
		role, ok := lookup(accountRoles, filters.Role)
		if !ok {
			return nil, outcome.Validation("unknown account role %q", filters.Role)
		}
		f.Role = &role
	}
	f.Limit = filters.Limit

	records, err := s.accountRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	accounts := make([]*primary.Account, len(records))
	for i, r := range records {
		accounts[i] = recordToAccount(r)
	}
	return accounts, nil
}

// Deactivate marks the account inactive.
func (s *AccountServiceImpl) Deactivate(ctx context.Context, email string) (bool, error) {
	return s.DeactivateAccount(ctx, email)
}

// DeactivateAccount is the idempotent side-effect of a death: a missing
// account reports false and an inactive one stays inactive.
func (s *AccountServiceImpl) DeactivateAccount(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}

	ok, err := s.accountRepo.SetState(ctx, email, AccountInactive)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("account deactivated", "email", email)
	}
	return ok, nil
}

func recordToAccount(r *secondary.AccountRecord) *primary.Account {
	return &primary.Account{
		ID:       r.ID,
		Email:    r.Email,
		State:    accountStates[r.State],
		Role:     accountRoles[r.Role],
		FamilyID: r.FamilyID,
		MemberID: r.MemberID,
	}
}

// Ensure AccountServiceImpl implements the interfaces.
var (
	_ primary.AccountService       = (*AccountServiceImpl)(nil)
	_ secondary.AccountDeactivator = (*AccountServiceImpl)(nil)
)
