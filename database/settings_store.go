package database

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"storefront_server/structs/tables"
	"time"

	"github.com/uptrace/bun"
)

type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) ListSettings(ctx context.Context) ([]tables.Setting, error) {
	rows, err := Query[tables.Setting](s.db).OrderBy("key", ASC).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return rows, nil
}

// UpsertSettings writes every pair in one transaction, stamping updated_at.
func (s *SettingsStore) UpsertSettings(ctx context.Context, values map[string]string) error {
	now := time.Now()
	return Transaction(s.db, ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, key := range slices.Sorted(maps.Keys(values)) {
			row := &tables.Setting{Key: key, Value: values[key], UpdatedAt: now}
			if err := Upsert(ctx, tx, row, "key", "value", "updated_at"); err != nil {
				return fmt.Errorf("failed to save setting %q: %w", key, err)
			}
		}
		return nil
	})
}
