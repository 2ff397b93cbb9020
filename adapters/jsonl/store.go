package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ethica/ports"
)

// Store is a file-backed audit store writing line-delimited JSON, one
// self-contained record per line. Files are partitioned by day and kind:
// decisions_YYYYMMDD.jsonl and incidents_YYYYMMDD.jsonl.
type Store struct {
	dir string
}

var _ ports.AuditStore = (*Store)(nil)

// NewStore creates the log directory if needed and returns a store over it
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "audit_logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Append writes one record as a JSON line to the day's file for its kind
func (s *Store) Append(ctx context.Context, record ports.AuditRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	path := filepath.Join(s.dir, s.fileName(record))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// Query scans every log file matching the filter kind and returns the
// records that pass all filters, in file order
func (s *Store) Query(ctx context.Context, filters ports.AuditFilters) ([]ports.AuditRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if filters.Kind == ports.KindDecision && !strings.HasPrefix(name, "decisions_") {
			continue
		}
		if filters.Kind == ports.KindIncident && !strings.HasPrefix(name, "incidents_") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var out []ports.AuditRecord
	for _, name := range names {
		records, err := s.readFile(filepath.Join(s.dir, name), filters)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (s *Store) readFile(path string, filters ports.AuditFilters) ([]ports.AuditRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var out []ports.AuditRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record ports.AuditRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("corrupt audit record in %s: %w", path, err)
		}
		if matches(record, filters) {
			out = append(out, record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit log: %w", err)
	}
	return out, nil
}

func (s *Store) fileName(record ports.AuditRecord) string {
	day := record.Timestamp.Format("20060102")
	if record.Kind == ports.KindIncident {
		return fmt.Sprintf("incidents_%s.jsonl", day)
	}
	return fmt.Sprintf("decisions_%s.jsonl", day)
}

func matches(record ports.AuditRecord, filters ports.AuditFilters) bool {
	if filters.Kind != "" && record.Kind != filters.Kind {
		return false
	}
	if filters.ID != "" && record.ID != filters.ID {
		return false
	}
	if filters.ModelID != "" && record.ModelID != filters.ModelID {
		return false
	}
	if filters.Severity != "" && record.Severity != filters.Severity {
		return false
	}
	if filters.Status != "" && record.Status != filters.Status {
		return false
	}
	if !filters.From.IsZero() && record.Timestamp.Before(filters.From) {
		return false
	}
	if !filters.To.IsZero() && record.Timestamp.After(filters.To) {
		return false
	}
	return true
}
