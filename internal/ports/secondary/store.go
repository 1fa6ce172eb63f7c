package secondary

import "context"

// Store groups the repositories that share one unit of work.
type Store interface {
	Members() MemberRepository
	Relations() RelationRepository
	Mirrors() MirrorRepository
	Log() LogWriter

	// Savepoint runs fn so that its writes are undone if it fails, without
	// aborting the enclosing transaction. Outside a transaction fn runs as is.
	Savepoint(ctx context.Context, name string, fn func() error) error
}

// Transactor is a Store that can open transactions. Every write of a life
// event or an import run happens inside one WithinTx call; fn's error rolls
// the whole unit back.
type Transactor interface {
	Store
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
