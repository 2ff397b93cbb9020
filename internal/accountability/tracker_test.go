package accountability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethica/domain/core"
	"ethica/ports"
)

// memoryStore is an in-memory AuditStore for tests
type memoryStore struct {
	records []ports.AuditRecord
	err     error
}

func (m *memoryStore) Append(ctx context.Context, record ports.AuditRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memoryStore) Query(ctx context.Context, filters ports.AuditFilters) ([]ports.AuditRecord, error) {
	return m.records, nil
}

func TestLogDecision(t *testing.T) {
	store := &memoryStore{}
	tracker := NewTracker(store)

	confidence := 0.92
	id, err := tracker.LogDecision(context.Background(), "credit-v1",
		map[string]any{"income": 52000}, 1.0, &confidence, map[string]any{"channel": "web"})
	require.NoError(t, err)
	assert.False(t, core.ID(id).IsEmpty())

	require.Len(t, store.records, 1)
	record := store.records[0]
	assert.Equal(t, ports.KindDecision, record.Kind)
	assert.Equal(t, core.ModelID("credit-v1"), record.ModelID)
	assert.Equal(t, 0.92, *record.Confidence)
	assert.False(t, record.Timestamp.IsZero())
}

func TestLogDecision_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	tracker := NewTracker(&memoryStore{err: storeErr})

	_, err := tracker.LogDecision(context.Background(), "m", nil, 0.0, nil, nil)
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, tracker.AuditTrail("", time.Time{}, time.Time{}))
}

func TestLogIncident_Defaults(t *testing.T) {
	tracker := NewTracker(&memoryStore{})

	id, err := tracker.LogIncident(context.Background(), "bias_detected",
		"parity violation above threshold", IncidentOptions{})
	require.NoError(t, err)
	assert.False(t, core.ID(id).IsEmpty())

	incidents := tracker.Incidents("", "", "")
	require.Len(t, incidents, 1)
	assert.Equal(t, SeverityMedium, incidents[0].Severity)
	assert.Equal(t, StatusOpen, incidents[0].Status)
}

func TestAuditTrail_Filters(t *testing.T) {
	tracker := NewTracker(&memoryStore{})
	ctx := context.Background()

	_, err := tracker.LogDecision(ctx, "model-a", nil, 1.0, nil, nil)
	require.NoError(t, err)
	_, err = tracker.LogDecision(ctx, "model-b", nil, 0.0, nil, nil)
	require.NoError(t, err)

	assert.Len(t, tracker.AuditTrail("", time.Time{}, time.Time{}), 2)
	assert.Len(t, tracker.AuditTrail("model-a", time.Time{}, time.Time{}), 1)

	// A window in the past excludes everything logged just now
	past := time.Now().UTC().Add(-time.Hour)
	assert.Empty(t, tracker.AuditTrail("", time.Time{}, past))
}

func TestIncidents_Filters(t *testing.T) {
	tracker := NewTracker(&memoryStore{})
	ctx := context.Background()

	_, err := tracker.LogIncident(ctx, "error", "timeout", IncidentOptions{Severity: SeverityLow, ModelID: "model-a"})
	require.NoError(t, err)
	_, err = tracker.LogIncident(ctx, "bias_detected", "odds gap", IncidentOptions{Severity: SeverityCritical, ModelID: "model-b"})
	require.NoError(t, err)

	assert.Len(t, tracker.Incidents(SeverityCritical, "", ""), 1)
	assert.Len(t, tracker.Incidents("", StatusOpen, ""), 2)
	assert.Len(t, tracker.Incidents("", "", "model-a"), 1)
	assert.Empty(t, tracker.Incidents(SeverityHigh, "", ""))
}

func TestGenerateReport(t *testing.T) {
	tracker := NewTracker(&memoryStore{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tracker.LogDecision(ctx, "model-a", nil, 1.0, nil, nil)
		require.NoError(t, err)
	}
	_, err := tracker.LogIncident(ctx, "bias_detected", "critical drift",
		IncidentOptions{Severity: SeverityCritical, ModelID: "model-a"})
	require.NoError(t, err)

	report := tracker.GenerateReport("model-a", 30)
	assert.Equal(t, "model-a", report.ModelID)
	assert.Equal(t, 3, report.Summary.TotalDecisions)
	assert.Equal(t, 1, report.Summary.TotalIncidents)
	assert.Equal(t, 1, report.Summary.CriticalIncidents)
	assert.Equal(t, 1, report.IncidentsBySeverity[SeverityCritical])
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "critical incident")

	quiet := tracker.GenerateReport("model-unknown", 30)
	assert.Equal(t, []string{"No immediate action required"}, quiet.Recommendations)
}
