package testsupport

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n/internal/storage"
)

// NewSQLiteDB opens a named in-memory SQLite database with the l10n schema.
// Each name is isolated from other tests in the same process.
func NewSQLiteDB(ctx context.Context, name string) (*bun.DB, error) {
	db, err := storage.Open(storage.ProviderSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name))
	if err != nil {
		return nil, err
	}
	if err := storage.CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
