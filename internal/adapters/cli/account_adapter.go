package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/kin/internal/ports/primary"
)

// AccountAdapter translates account commands to AccountService calls.
type AccountAdapter struct {
	service primary.AccountService
	out     io.Writer
}

// NewAccountAdapter creates a new AccountAdapter.
func NewAccountAdapter(service primary.AccountService, out io.Writer) *AccountAdapter {
	return &AccountAdapter{
		service: service,
		out:     out,
	}
}

// Register creates an account.
func (a *AccountAdapter) Register(ctx context.Context, req primary.RegisterAccountRequest) (*primary.Account, error) {
	acct, err := a.service.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Account %s registered as %s\n", okMark, acct.Email, acct.Role)
	return acct, nil
}

// Verify checks a password and prints the verdict.
func (a *AccountAdapter) Verify(ctx context.Context, email, password string) (bool, error) {
	ok, err := a.service.Verify(ctx, email, password)
	if err != nil {
		return false, err
	}

	if ok {
		fmt.Fprintf(a.out, "%s Password accepted for %s\n", okMark, email)
	} else {
		fmt.Fprintf(a.out, "%s Password rejected for %s\n", failMark, email)
	}
	return ok, nil
}

// List prints accounts.
func (a *AccountAdapter) List(ctx context.Context, filters primary.AccountFilters) ([]*primary.Account, error) {
	accounts, err := a.service.ListAccounts(ctx, filters)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		fmt.Fprintln(a.out, "No accounts found.")
		return accounts, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tSTATE\tROLE\tMEMBER")
	fmt.Fprintln(w, "--\t-----\t-----\t----\t------")
	for _, acct := range accounts {
		member := "-"
		if acct.MemberID != 0 {
			member = fmt.Sprintf("#%d", acct.MemberID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", acct.ID, acct.Email, acct.State, acct.Role, member)
	}
	w.Flush()
	return accounts, nil
}

// Deactivate marks an account inactive.
func (a *AccountAdapter) Deactivate(ctx context.Context, email string) (bool, error) {
	ok, err := a.service.Deactivate(ctx, email)
	if err != nil {
		return false, err
	}

	if ok {
		fmt.Fprintf(a.out, "%s Account %s deactivated\n", okMark, email)
	} else {
		fmt.Fprintf(a.out, "%s No account for %s\n", skipMark, email)
	}
	return ok, nil
}
