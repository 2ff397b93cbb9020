// Package auditstore selects the audit store backend from configuration:
// postgres when a database URL is set, day-partitioned JSONL files otherwise.
// Both binaries open their store through here so the selection rule cannot
// drift between them.
package auditstore

import (
	"context"

	"ethica/adapters/jsonl"
	"ethica/adapters/postgres"
	"ethica/ports"
)

// Open returns the configured audit store and a cleanup func releasing its
// resources. The postgres path runs the schema migration before returning.
func Open(ctx context.Context, databaseURL, logDir string) (ports.AuditStore, func(), error) {
	if databaseURL != "" {
		db, err := postgres.Connect(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewAuditRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	}

	store, err := jsonl.NewStore(logDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
