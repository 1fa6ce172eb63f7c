package primary

import "context"

// LineageService defines the primary port for generation and lineage reads.
type LineageService interface {
	// MembersInRange lists members with genBegin <= gen_order <= genEnd,
	// ordered by (gen_order, born).
	MembersInRange(ctx context.Context, genBegin, genEnd int) ([]*Member, error)

	// Lineage collects ancestors and descendants within the requested hops,
	// plus the member's partners.
	Lineage(ctx context.Context, req LineageRequest) (*Lineage, error)
}

// LineageRequest bounds a lineage walk. Zero depths use the configured default.
type LineageRequest struct {
	MemberID int64
	Up       int
	Down     int
}

// Lineage is the plain data a tree view renders.
type Lineage struct {
	Root        *Member         `json:"root" yaml:"root"`
	Up          int             `json:"up" yaml:"up"`
	Down        int             `json:"down" yaml:"down"`
	Ancestors   []*LineageEntry `json:"ancestors" yaml:"ancestors"`
	Descendants []*LineageEntry `json:"descendants" yaml:"descendants"`
	Spouses     []*SpouseEntry  `json:"spouses" yaml:"spouses"`
}

// LineageEntry is a member reached Depth hops from the root.
type LineageEntry struct {
	Member *Member `json:"member" yaml:"member"`
	Depth  int     `json:"depth" yaml:"depth"`
}

// SpouseEntry is a partnership of the root member, past or present.
type SpouseEntry struct {
	Member   *Member `json:"member" yaml:"member"`
	Type     string  `json:"type" yaml:"type"`
	JoinDate string  `json:"join_date" yaml:"join_date"`
	EndDate  string  `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}
