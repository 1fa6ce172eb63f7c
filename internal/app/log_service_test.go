package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

// mockEventLogRepository implements secondary.EventLogRepository for testing.
type mockEventLogRepository struct {
	entries    []*secondary.EventLogRecord
	listErr    error
	lastFilter secondary.EventLogFilters
}

func (m *mockEventLogRepository) Create(ctx context.Context, e *secondary.EventLogRecord) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockEventLogRepository) List(ctx context.Context, filters secondary.EventLogFilters) ([]*secondary.EventLogRecord, error) {
	m.lastFilter = filters
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.EventLogRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.Event != "" && e.Event != filters.Event {
			continue
		}
		if filters.RunID != "" && e.RunID != filters.RunID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockEventLogRepository) GetNextID(ctx context.Context) (string, error) {
	return "EV-0001", nil
}

func TestListLogs(t *testing.T) {
	repo := &mockEventLogRepository{entries: []*secondary.EventLogRecord{
		{ID: "EV-0001", Event: "birth", EntityType: "member", EntityID: "3"},
		{ID: "EV-0002", Event: "import", EntityType: "member", EntityID: "4", RunID: "run-1"},
		{ID: "EV-0003", Event: "import", EntityType: "import", EntityID: "run-1", RunID: "run-1"},
	}}
	service := NewLogService(repo)

	entries, err := service.ListLogs(context.Background(), primary.LogFilters{RunID: "run-1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "EV-0003", entries[0].ID)
	assert.Equal(t, "run-1", entries[1].RunID)
}

func TestListLogs_Error(t *testing.T) {
	service := NewLogService(&mockEventLogRepository{listErr: errors.New("disk gone")})

	_, err := service.ListLogs(context.Background(), primary.LogFilters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list logs")
}

func TestListLogs_Filters(t *testing.T) {
	tests := []struct {
		name      string
		filters   primary.LogFilters
		wantErr   bool
		wantLimit int
	}{
		{name: "default limit", filters: primary.LogFilters{}, wantLimit: DefaultLogLimit},
		{name: "explicit limit", filters: primary.LogFilters{Limit: 5}, wantLimit: 5},
		{name: "known event", filters: primary.LogFilters{Event: "death"}, wantLimit: DefaultLogLimit},
		{name: "unknown event", filters: primary.LogFilters{Event: "wedding"}, wantErr: true},
		{name: "negative limit", filters: primary.LogFilters{Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventLogRepository{}
			_, err := NewLogService(repo).ListLogs(context.Background(), tt.filters)
			if tt.wantErr {
				assert.True(t, outcome.Is(err, outcome.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, repo.lastFilter.Limit)
		})
	}
}
