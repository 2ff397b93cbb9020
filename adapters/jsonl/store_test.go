package jsonl

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ethica/ports"
)

func TestStore_AppendAndQuery(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ctx := context.Background()

	now := time.Now().UTC()
	decision := ports.AuditRecord{
		Kind:       ports.KindDecision,
		ID:         "d-1",
		Timestamp:  now,
		ModelID:    "model-a",
		Prediction: 1.0,
	}
	incident := ports.AuditRecord{
		Kind:      ports.KindIncident,
		ID:        "i-1",
		Timestamp: now,
		ModelID:   "model-a",
		Severity:  "critical",
		Status:    "open",
	}

	if err := store.Append(ctx, decision); err != nil {
		t.Fatalf("Append decision failed: %v", err)
	}
	if err := store.Append(ctx, incident); err != nil {
		t.Fatalf("Append incident failed: %v", err)
	}

	// Kind filter splits the two files
	decisions, err := store.Query(ctx, ports.AuditFilters{Kind: ports.KindDecision})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(decisions) != 1 || decisions[0].ID != "d-1" {
		t.Errorf("Expected the single decision, got %+v", decisions)
	}

	incidents, err := store.Query(ctx, ports.AuditFilters{Kind: ports.KindIncident, Severity: "critical"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(incidents) != 1 || incidents[0].ID != "i-1" {
		t.Errorf("Expected the single critical incident, got %+v", incidents)
	}

	// No-filter query sees everything
	all, err := store.Query(ctx, ports.AuditFilters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 records, got %d", len(all))
	}
}

func TestStore_WireFormat(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record := ports.AuditRecord{
		Kind:      ports.KindDecision,
		ID:        "d-wire",
		Timestamp: ts,
		ModelID:   "model-a",
	}
	if err := store.Append(context.Background(), record); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// One self-contained JSON object per line, day-partitioned file name
	path := filepath.Join(dir, "decisions_20260314.jsonl")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected day-partitioned file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("Line is not valid JSON: %v", err)
	}
	if decoded["timestamp"] != "2026-03-14T09:30:00Z" {
		t.Errorf("Expected ISO-8601 timestamp, got %v", decoded["timestamp"])
	}
	if decoded["model_id"] != "model-a" {
		t.Errorf("Expected model_id field, got %v", decoded["model_id"])
	}
}

func TestStore_TimeWindowFilter(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ctx := context.Background()

	old := ports.AuditRecord{Kind: ports.KindDecision, ID: "old",
		Timestamp: time.Now().UTC().Add(-48 * time.Hour)}
	recent := ports.AuditRecord{Kind: ports.KindDecision, ID: "recent",
		Timestamp: time.Now().UTC()}
	if err := store.Append(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, recent); err != nil {
		t.Fatal(err)
	}

	got, err := store.Query(ctx, ports.AuditFilters{From: time.Now().UTC().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "recent" {
		t.Errorf("Expected only the recent record, got %+v", got)
	}
}
