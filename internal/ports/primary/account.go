package primary

import "context"

// AccountService defines the primary port for user accounts.
type AccountService interface {
	// Register creates an active account with a hashed password.
	Register(ctx context.Context, req RegisterAccountRequest) (*Account, error)

	// Verify reports whether the password matches an active account.
	Verify(ctx context.Context, email, password string) (bool, error)

	// ListAccounts lists accounts with optional filters.
	ListAccounts(ctx context.Context, filters AccountFilters) ([]*Account, error)

	// Deactivate marks the account inactive. Missing or already inactive
	// accounts are not an error.
	Deactivate(ctx context.Context, email string) (bool, error)
}

// RegisterAccountRequest contains parameters for creating an account.
type RegisterAccountRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	Role     string `validate:"omitempty,oneof=member family-admin platform-admin"`
	FamilyID int64  `validate:"gte=0"`
	MemberID int64  `validate:"gte=0"`
}

// Account represents an account at the port boundary. The password hash
// never crosses the boundary.
type Account struct {
	ID       int64
	Email    string
	State    string // "active", "pending", "inactive"
	Role     string // "member", "family-admin", "platform-admin"
	FamilyID int64
	MemberID int64
}

// AccountFilters contains filter options for listing accounts.
type AccountFilters struct {
	State string
	Role  string
	Limit int
}
