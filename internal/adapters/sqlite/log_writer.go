package sqlite

import (
	"context"

	"github.com/example/kin/internal/ctxutil"
	"github.com/example/kin/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using EventLogRepository.
// The actor and import run are taken from the context.
type LogWriterAdapter struct {
	logRepo secondary.EventLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.EventLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogEvent appends one entry to the event log.
func (w *LogWriterAdapter) LogEvent(ctx context.Context, event, entityType, entityID, detail string) error {
	id, err := w.logRepo.GetNextID(ctx)
	if err != nil {
		return err
	}

	record := &secondary.EventLogRecord{
		ID:         id,
		ActorID:    ctxutil.ActorFromContext(ctx),
		RunID:      ctxutil.RunFromContext(ctx),
		Event:      event,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}

	return w.logRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
