package store

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaVersion is the version the schemaSQL bootstrap produces. When
// the schema changes, bump this and add the statements that bring an
// older database one step forward to upgrades.
const schemaVersion = 1

// upgrades[v] holds the statements that take a database from version v
// to v+1. Version 0 is a fresh database; schemaSQL already creates the
// current shape, so its entry stays empty and the version is stamped.
var upgrades = map[int][]string{}

// Migrate brings the database up to schemaVersion, using the SQLite
// user_version header field for bookkeeping. Each step runs in its own
// transaction so a failed upgrade leaves the previous version intact.
func (s *Store) Migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for v := current; v < schemaVersion; v++ {
		if err := s.upgradeFrom(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upgradeFrom(ctx context.Context, version int) error {
	if version > 0 {
		slog.Info("upgrading schema", "from", version, "to", version+1)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upgrading schema to version %d: %w", version+1, err)
	}
	defer tx.Rollback()

	for _, stmt := range upgrades[version] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("upgrading schema to version %d: %w", version+1, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version+1)); err != nil {
		return fmt.Errorf("stamping schema version %d: %w", version+1, err)
	}
	return tx.Commit()
}
