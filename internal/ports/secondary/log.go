package secondary

import "context"

// LogWriter defines the interface for writing event log entries.
// Implementations extract the actor and import run from context.
type LogWriter interface {
	// LogEvent records that event touched the given entity.
	LogEvent(ctx context.Context, event, entityType, entityID, detail string) error
}
