package ports

import (
	"context"
	"time"

	"ethica/domain/core"
)

// RecordKind distinguishes the two audit record types
type RecordKind string

const (
	KindDecision RecordKind = "decision"
	KindIncident RecordKind = "incident"
)

// AuditRecord is one line of the audit trail. Decision and incident records
// share the envelope; kind-specific fields are populated per Kind.
type AuditRecord struct {
	Kind      RecordKind     `json:"kind"`
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	ModelID   core.ModelID   `json:"model_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	// Decision fields
	InputData  any      `json:"input_data,omitempty"`
	Prediction any      `json:"prediction,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	// Incident fields
	IncidentType string          `json:"incident_type,omitempty"`
	Description  string          `json:"description,omitempty"`
	Severity     string          `json:"severity,omitempty"`
	Status       string          `json:"status,omitempty"`
	DecisionID   core.DecisionID `json:"decision_id,omitempty"`
}

// AuditFilters narrows audit store queries. Zero values match everything.
type AuditFilters struct {
	Kind     RecordKind
	ID       string
	ModelID  core.ModelID
	Severity string
	Status   string
	From     time.Time
	To       time.Time
}

// AuditStore is append-only durable storage for the audit trail.
// The core calculators never depend on it; only the accountability
// tracker writes through it.
type AuditStore interface {
	Append(ctx context.Context, record AuditRecord) error
	Query(ctx context.Context, filters AuditFilters) ([]AuditRecord, error)
}
