package postgres

import (
	"context"

	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

const (
	selectEntrySQL = `SELECT value FROM kv_entries WHERE area = $1 AND key = $2`

	upsertEntrySQL = `
		INSERT INTO kv_entries (area, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (area, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	deleteEntrySQL = `DELETE FROM kv_entries WHERE area = $1 AND key = $2`
)

// Area implements storage.Area over the kv_entries table.
type Area struct {
	db   Querier
	name storage.AreaName
}

var _ storage.Area = (*Area)(nil)

// NewArea creates an Area bound to one logical area.
func NewArea(db Querier, name storage.AreaName) *Area {
	return &Area{db: db, name: name}
}

// Get returns the value stored under key.
func (a *Area) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, shared.ErrStorageKeyEmpty
	}

	var value string
	err := a.db.QueryRow(ctx, selectEntrySQL, string(a.name), key).Scan(&value)
	if err != nil {
		if IsNoRows(err) {
			return "", false, nil
		}
		return "", false, shared.WrapError("storage", "Get", shared.ErrStorage, "postgres select failed", err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (a *Area) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return shared.ErrStorageKeyEmpty
	}

	if _, err := a.db.Exec(ctx, upsertEntrySQL, string(a.name), key, value); err != nil {
		return shared.WrapError("storage", "Set", shared.ErrStorage, "postgres upsert failed", err)
	}
	return nil
}

// Delete removes key.
func (a *Area) Delete(ctx context.Context, key string) error {
	if key == "" {
		return shared.ErrStorageKeyEmpty
	}

	if _, err := a.db.Exec(ctx, deleteEntrySQL, string(a.name), key); err != nil {
		return shared.WrapError("storage", "Delete", shared.ErrStorage, "postgres delete failed", err)
	}
	return nil
}
