package accountability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ethica/domain/core"
	"ethica/ports"
)

// Incident severities and statuses
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"

	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusClosed   = "closed"
)

// IncidentOptions carries the optional fields of an incident record
type IncidentOptions struct {
	Severity   string
	ModelID    core.ModelID
	DecisionID core.DecisionID
	Metadata   map[string]any
}

// Tracker records model decisions and incidents for accountability. Records
// accumulate in memory and are appended to the audit store as they arrive;
// the in-memory lists back the query methods.
type Tracker struct {
	store ports.AuditStore

	mu        sync.Mutex
	decisions []ports.AuditRecord
	incidents []ports.AuditRecord
}

// NewTracker creates a tracker writing through the given audit store
func NewTracker(store ports.AuditStore) *Tracker {
	return &Tracker{store: store}
}

// LogDecision records one model decision and returns its ID
func (t *Tracker) LogDecision(ctx context.Context, modelID core.ModelID, inputData, prediction any, confidence *float64, metadata map[string]any) (core.DecisionID, error) {
	id := core.NewDecisionID()
	record := ports.AuditRecord{
		Kind:       ports.KindDecision,
		ID:         id.String(),
		Timestamp:  time.Now().UTC(),
		ModelID:    modelID,
		InputData:  inputData,
		Prediction: prediction,
		Confidence: confidence,
		Metadata:   metadata,
	}

	if err := t.store.Append(ctx, record); err != nil {
		return "", fmt.Errorf("failed to persist decision: %w", err)
	}

	t.mu.Lock()
	t.decisions = append(t.decisions, record)
	t.mu.Unlock()
	return id, nil
}

// LogIncident records an incident for review and returns its ID.
// Severity defaults to medium, status always starts open.
func (t *Tracker) LogIncident(ctx context.Context, incidentType, description string, opts IncidentOptions) (core.IncidentID, error) {
	severity := opts.Severity
	if severity == "" {
		severity = SeverityMedium
	}

	id := core.NewIncidentID()
	record := ports.AuditRecord{
		Kind:         ports.KindIncident,
		ID:           id.String(),
		Timestamp:    time.Now().UTC(),
		ModelID:      opts.ModelID,
		IncidentType: incidentType,
		Description:  description,
		Severity:     severity,
		Status:       StatusOpen,
		DecisionID:   opts.DecisionID,
		Metadata:     opts.Metadata,
	}

	if err := t.store.Append(ctx, record); err != nil {
		return "", fmt.Errorf("failed to persist incident: %w", err)
	}

	t.mu.Lock()
	t.incidents = append(t.incidents, record)
	t.mu.Unlock()
	return id, nil
}

// AuditTrail returns logged decisions filtered by model and time window.
// Zero-valued filters match everything.
func (t *Tracker) AuditTrail(modelID core.ModelID, from, to time.Time) []ports.AuditRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []ports.AuditRecord
	for _, d := range t.decisions {
		if modelID != "" && d.ModelID != modelID {
			continue
		}
		if !from.IsZero() && d.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && d.Timestamp.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Incidents returns logged incidents filtered by severity, status, and model
func (t *Tracker) Incidents(severity, status string, modelID core.ModelID) []ports.AuditRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []ports.AuditRecord
	for _, inc := range t.incidents {
		if severity != "" && inc.Severity != severity {
			continue
		}
		if status != "" && inc.Status != status {
			continue
		}
		if modelID != "" && inc.ModelID != modelID {
			continue
		}
		out = append(out, inc)
	}
	return out
}
