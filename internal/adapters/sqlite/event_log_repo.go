package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/secondary"
)

const eventLogColumns = "id, timestamp, actor_id, run_id, event, entity_type, entity_id, detail, created_at"

// EventLogRepository implements secondary.EventLogRepository with SQLite.
type EventLogRepository struct {
	db Querier
}

// NewEventLogRepository creates a new SQLite event log repository.
func NewEventLogRepository(db Querier) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// Create persists a new event log entry.
func (r *EventLogRepository) Create(ctx context.Context, entry *secondary.EventLogRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_logs (id, actor_id, run_id, event, entity_type, entity_id, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullString(entry.ActorID),
		nullString(entry.RunID),
		entry.Event,
		entry.EntityType,
		entry.EntityID,
		nullString(entry.Detail),
	)
	if err != nil {
		return classify(err, "failed to create event log %s", entry.ID)
	}
	return nil
}

// List retrieves entries matching the given filters, newest first.
func (r *EventLogRepository) List(ctx context.Context, filters secondary.EventLogFilters) ([]*secondary.EventLogRecord, error) {
	query := "SELECT " + eventLogColumns + " FROM event_logs WHERE 1=1"
	args := []any{}

	if filters.Event != "" {
		query += " AND event = ?"
		args = append(args, filters.Event)
	}

	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}

	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	if filters.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filters.RunID)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, outcome.Storage(err, "failed to list event logs")
	}
	defer rows.Close()

	var entries []*secondary.EventLogRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			runID     sql.NullString
			detail    sql.NullString
			timestamp sql.NullTime
			createdAt sql.NullTime
		)

		record := &secondary.EventLogRecord{}
		err := rows.Scan(&record.ID,
			&timestamp,
			&actorID,
			&runID,
			&record.Event,
			&record.EntityType,
			&record.EntityID,
			&detail,
			&createdAt)
		if err != nil {
			return nil, outcome.Storage(err, "failed to scan event log")
		}
		record.Timestamp = formatTime(timestamp.Time)
		record.ActorID = actorID.String
		record.RunID = runID.String
		record.Detail = detail.String
		record.CreatedAt = formatTime(createdAt.Time)

		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, outcome.Storage(err, "failed to iterate event logs")
	}
	return entries, nil
}

// GetNextID returns the next available entry ID.
func (r *EventLogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("EV-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM event_logs", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", outcome.Storage(err, "failed to get next event log ID")
	}

	return fmt.Sprintf("EV-%04d", maxID+1), nil
}

// Ensure EventLogRepository implements the interface
var _ secondary.EventLogRepository = (*EventLogRepository)(nil)
