// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// MemberRepository defines the secondary port for member persistence.
type MemberRepository interface {
	// Create persists a new member and returns its surrogate ID.
	Create(ctx context.Context, member *MemberRecord) (int64, error)

	// GetByID retrieves a member by its ID.
	GetByID(ctx context.Context, id int64) (*MemberRecord, error)

	// GetMany retrieves the members with the given IDs. Missing IDs are skipped.
	GetMany(ctx context.Context, ids []int64) ([]*MemberRecord, error)

	// Search returns every member matching all non-empty query fields.
	Search(ctx context.Context, query MemberQuery) ([]*MemberRecord, error)

	// List retrieves members ordered by generation then birth date.
	List(ctx context.Context, filters MemberFilters) ([]*MemberRecord, error)

	// Update writes only the non-nil fields of patch.
	Update(ctx context.Context, id int64, patch MemberPatch) error

	// Count returns the number of stored members.
	Count(ctx context.Context) (int, error)
}

// MemberRecord represents a member as stored in persistence.
type MemberRecord struct {
	ID        int64
	Name      string
	FamilyID  int64  // 0 means null
	Alias     string // Empty string means null
	Email     string // Empty string means null
	URL       string // Empty string means null
	Born      string
	Died      string // Empty string means null
	Sex       string // "M", "F" or empty
	GenOrder  int
	DadID     int64 // 0 means null
	MomID     int64 // 0 means null
	CreatedAt string
	UpdatedAt string
}

// MemberQuery is a conjunctive natural-key filter. Spouse, Dad and Mom match
// the name of the related member.
type MemberQuery struct {
	Name     string
	Born     string
	GenOrder *int
	Spouse   string
	Dad      string
	Mom      string
}

// MemberFilters contains filter options for listing members.
type MemberFilters struct {
	GenBegin *int
	GenEnd   *int
	FamilyID int64
	Limit    int
}

// MemberPatch holds a partial update. Nil fields are left untouched.
type MemberPatch struct {
	Alias    *string
	Email    *string
	URL      *string
	Died     *string
	Sex      *string
	FamilyID *int64
	DadID    *int64
	MomID    *int64
}

// RelationRepository defines the secondary port for the relation ledger.
// Relations are never deleted; End is the only mutation.
type RelationRepository interface {
	// Create persists a new ongoing relation and returns its ID.
	Create(ctx context.Context, relation *RelationRecord) (int64, error)

	// GetByID retrieves a relation by its ID.
	GetByID(ctx context.Context, id int64) (*RelationRecord, error)

	// ListInvolving returns relations with the member on either side.
	ListInvolving(ctx context.Context, memberID int64) ([]*RelationRecord, error)

	// ListBetween returns relations between two members in either direction.
	ListBetween(ctx context.Context, a, b int64) ([]*RelationRecord, error)

	// End sets the end date and relation type of an ongoing relation.
	// Ending an already-ended relation is a conflict.
	End(ctx context.Context, id int64, endDate, relationType string) error

	// Parents maps each ID to its parents, from parent/child relations in
	// either direction and the dad_id/mom_id columns.
	Parents(ctx context.Context, ids []int64) (map[int64][]int64, error)

	// Children maps each ID to its children, the mirror of Parents.
	Children(ctx context.Context, ids []int64) (map[int64][]int64, error)

	// Count returns the number of stored relations.
	Count(ctx context.Context) (int, error)
}

// RelationRecord represents a ledger entry as stored in persistence.
// (MemberID=X, PartnerID=Y, Relation=T) reads "X has Y as T".
type RelationRecord struct {
	ID               int64
	MemberID         int64
	PartnerID        int64
	Relation         string
	JoinDate         string
	EndDate          string // Empty string means ongoing
	OriginalName     string // Name before joining the family, empty means null
	OriginalFamilyID int64  // 0 means null
	CreatedAt        string
	UpdatedAt        string
}

// MirrorRepository defines the secondary port for the transient staging
// table of legacy rows.
type MirrorRepository interface {
	// Clear removes every staged row.
	Clear(ctx context.Context) error

	// Insert stages one row. Only the supplied columns are written so that
	// column defaults apply to the rest.
	Insert(ctx context.Context, values map[string]any) (int64, error)

	// List returns staged rows in source order.
	List(ctx context.Context) ([]*MirrorRecord, error)
}

// MirrorRecord represents a staged legacy row.
type MirrorRecord struct {
	ID        int64
	RowNumber int
	Name      string
	Aka       string
	Sex       *int
	Born      string
	Died      string
	Dad       string
	Mom       string
	Relation  int
	Spouse    string
	Married   string
	GenOrder  int
	Href      string
	Status    int
}

// AccountRepository defines the secondary port for user accounts.
type AccountRepository interface {
	// Create persists a new account and returns its ID.
	Create(ctx context.Context, account *AccountRecord) (int64, error)

	// GetByEmail retrieves an account by email.
	GetByEmail(ctx context.Context, email string) (*AccountRecord, error)

	// List retrieves accounts matching the given filters.
	List(ctx context.Context, filters AccountFilters) ([]*AccountRecord, error)

	// SetState changes an account's activation state. Returns false when no
	// account has that email.
	SetState(ctx context.Context, email string, state int) (bool, error)
}

// AccountRecord represents a user account as stored in persistence.
type AccountRecord struct {
	ID           int64
	Email        string
	State        int // -1 inactive, 0 pending, 1 active
	Role         int // 0 family member, 1 family admin, 2 platform admin
	FamilyID     int64
	MemberID     int64
	PasswordHash string
	CreatedAt    string
	UpdatedAt    string
}

// AccountFilters contains filter options for querying accounts.
type AccountFilters struct {
	State *int
	Role  *int
	Limit int
}

// AccountDeactivator is the side-effect the death handler triggers for a
// member's account. It is idempotent: a missing or already inactive account
// is not an error.
type AccountDeactivator interface {
	DeactivateAccount(ctx context.Context, email string) (bool, error)
}

// EventLogRepository defines the secondary port for the event log.
// Entries are immutable.
type EventLogRepository interface {
	// Create persists a new entry.
	Create(ctx context.Context, entry *EventLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters EventLogFilters) ([]*EventLogRecord, error)

	// GetNextID returns the next available entry ID.
	GetNextID(ctx context.Context) (string, error)
}

// EventLogRecord represents an event log entry as stored in persistence.
type EventLogRecord struct {
	ID         string
	Timestamp  string
	ActorID    string // Empty string means null
	RunID      string // Import run, empty string means null
	Event      string // 'birth', 'death', 'marriage', 'divorce', 'adoption', 'step', 'import', 'add'
	EntityType string // 'member', 'relation', 'import'
	EntityID   string
	Detail     string
	CreatedAt  string
}

// EventLogFilters contains filter options for querying the event log.
type EventLogFilters struct {
	Event      string
	EntityType string
	EntityID   string
	RunID      string
	Limit      int
}
