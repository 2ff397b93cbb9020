package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ethica/domain/core"
	"ethica/internal/errors"
	"ethica/ports"
)

// AuditRepository persists audit records in postgres. It satisfies
// ports.AuditStore so the accountability tracker can write through it
// instead of the JSONL file store.
type AuditRepository struct {
	db *sqlx.DB
}

var _ ports.AuditStore = (*AuditRepository)(nil)

// NewAuditRepository creates a repository over an open connection
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Connect opens a postgres connection and verifies it
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to postgres", err)
	}
	return db, nil
}

// Migrate creates the audit_records table if it does not exist
func (r *AuditRepository) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS audit_records (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			model_id TEXT,
			input_data JSONB,
			prediction JSONB,
			confidence DOUBLE PRECISION,
			incident_type TEXT,
			description TEXT,
			severity TEXT,
			status TEXT,
			decision_id TEXT,
			metadata JSONB
		);
		CREATE INDEX IF NOT EXISTS idx_audit_records_model_ts
			ON audit_records (model_id, timestamp)`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.DatabaseError("failed to migrate audit schema", err)
	}
	return nil
}

// Append inserts one audit record
func (r *AuditRepository) Append(ctx context.Context, record ports.AuditRecord) error {
	query := `
		INSERT INTO audit_records (
			id, kind, timestamp, model_id, input_data, prediction, confidence,
			incident_type, description, severity, status, decision_id, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	inputJSON, err := json.Marshal(record.InputData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data: %w", err)
	}
	predictionJSON, err := json.Marshal(record.Prediction)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.Kind,
		record.Timestamp,
		record.ModelID.String(),
		inputJSON,
		predictionJSON,
		record.Confidence,
		record.IncidentType,
		record.Description,
		record.Severity,
		record.Status,
		record.DecisionID.String(),
		metadataJSON,
	)
	if err != nil {
		return errors.DatabaseError("failed to insert audit record", err)
	}
	return nil
}

// Query returns audit records matching the filters, oldest first
func (r *AuditRepository) Query(ctx context.Context, filters ports.AuditFilters) ([]ports.AuditRecord, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Kind != "" {
		conditions = append(conditions, "kind = "+arg(filters.Kind))
	}
	if filters.ID != "" {
		conditions = append(conditions, "id = "+arg(filters.ID))
	}
	if filters.ModelID != "" {
		conditions = append(conditions, "model_id = "+arg(filters.ModelID.String()))
	}
	if filters.Severity != "" {
		conditions = append(conditions, "severity = "+arg(filters.Severity))
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = "+arg(filters.Status))
	}
	if !filters.From.IsZero() {
		conditions = append(conditions, "timestamp >= "+arg(filters.From))
	}
	if !filters.To.IsZero() {
		conditions = append(conditions, "timestamp <= "+arg(filters.To))
	}

	query := `
		SELECT id, kind, timestamp, model_id, input_data, prediction, confidence,
			   incident_type, description, severity, status, decision_id, metadata
		FROM audit_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to query audit records", err)
	}
	defer rows.Close()

	var out []ports.AuditRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("failed to iterate audit records", err)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows) (ports.AuditRecord, error) {
	var record ports.AuditRecord
	var modelID, decisionID string
	var incidentType, description, severity, status sql.NullString
	var confidence sql.NullFloat64
	var inputJSON, predictionJSON, metadataJSON []byte

	err := rows.Scan(
		&record.ID,
		&record.Kind,
		&record.Timestamp,
		&modelID,
		&inputJSON,
		&predictionJSON,
		&confidence,
		&incidentType,
		&description,
		&severity,
		&status,
		&decisionID,
		&metadataJSON,
	)
	if err != nil {
		return record, errors.DatabaseError("failed to scan audit record", err)
	}

	record.ModelID = core.ModelID(modelID)
	record.DecisionID = core.DecisionID(decisionID)
	record.IncidentType = incidentType.String
	record.Description = description.String
	record.Severity = severity.String
	record.Status = status.String
	if confidence.Valid {
		record.Confidence = &confidence.Float64
	}

	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &record.InputData); err != nil {
			return record, fmt.Errorf("failed to unmarshal input data: %w", err)
		}
	}
	if len(predictionJSON) > 0 {
		if err := json.Unmarshal(predictionJSON, &record.Prediction); err != nil {
			return record, fmt.Errorf("failed to unmarshal prediction: %w", err)
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return record, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return record, nil
}
