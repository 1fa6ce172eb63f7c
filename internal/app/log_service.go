package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// DefaultLogLimit caps listings that do not ask for a limit.
const DefaultLogLimit = 50

// loggedEvents are the event names services write to the log.
var loggedEvents = map[string]bool{
	"add":      true,
	"birth":    true,
	"death":    true,
	"marriage": true,
	"divorce":  true,
	"adoption": true,
	"step":     true,
	"import":   true,
}

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	logRepo secondary.EventLogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(logRepo secondary.EventLogRepository) *LogServiceImpl {
	return &LogServiceImpl{
		logRepo: logRepo,
	}
}

// ListLogs retrieves log entries matching the given filters, newest first.
// An event name the services never write is rejected rather than silently
// matching nothing.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	if filters.Event != "" && !loggedEvents[filters.Event] {
		known := make([]string, 0, len(loggedEvents))
		for e := range loggedEvents {
			known = append(known, e)
		}
		sort.Strings(known)
		return nil, outcome.Validation("unknown event %q (one of %s)", filters.Event, strings.Join(known, ", "))
	}
	if filters.Limit < 0 {
		return nil, outcome.Validation("limit must not be negative, got %d", filters.Limit)
	}
	if filters.Limit == 0 {
		filters.Limit = DefaultLogLimit
	}

	records, err := s.logRepo.List(ctx, secondary.EventLogFilters{
		Event:      filters.Event,
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		RunID:      filters.RunID,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToLogEntry(r)
	}
	return entries, nil
}

func (s *LogServiceImpl) recordToLogEntry(r *secondary.EventLogRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		ActorID:    r.ActorID,
		RunID:      r.RunID,
		Event:      r.Event,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Detail:     r.Detail,
	}
}

// Ensure LogServiceImpl implements the interface.
var _ primary.LogService = (*LogServiceImpl)(nil)
