package primary

import "context"

// IdentityService defines the primary port for natural-key resolution.
type IdentityService interface {
	// Resolve finds the members matching a natural-key query. Not-found and
	// ambiguous outcomes are reported in the Resolution, not as errors.
	Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error)
}

// ResolveRequest is a conjunctive filter; empty fields are unconstrained.
type ResolveRequest struct {
	Name     string
	Born     string
	GenOrder *int
	Spouse   string
	Dad      string
	Mom      string
}

// Resolution is the tri-state outcome of a lookup.
type Resolution struct {
	Outcome    string // "unique", "not-found", "ambiguous"
	Member     *Member
	Candidates []*Member
}
