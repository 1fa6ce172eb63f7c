package primary

import "context"

// LogService defines the primary port for the event log.
type LogService interface {
	// ListLogs retrieves log entries matching the given filters.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)
}

// LogEntry represents an event log entry at the port boundary.
type LogEntry struct {
	ID         string
	Timestamp  string
	ActorID    string
	RunID      string
	Event      string
	EntityType string
	EntityID   string
	Detail     string
}

// LogFilters contains filter options for querying logs.
type LogFilters struct {
	Event      string
	EntityType string
	EntityID   string
	RunID      string
	Limit      int
}
