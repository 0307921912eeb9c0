package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-l10n/internal/adapters/usersactivity"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/permissions"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
)

const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

var ErrProviderUnknown = errors.New("storage: unknown provider")

// Open connects to the configured database and wraps it with the matching
// bun dialect. SQLite connections are limited to one writer.
func Open(provider, dsn string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderSQLite, "":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case ProviderPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, provider)
	}
}

// Models lists every table model in creation order.
func Models() []any {
	return []any{
		(*users.User)(nil),
		(*projects.Project)(nil),
		(*projects.ProjectSlugHistory)(nil),
		(*projects.Locale)(nil),
		(*projects.ProjectLocale)(nil),
		(*projects.Tag)(nil),
		(*projects.ResourceTag)(nil),
		(*translations.Resource)(nil),
		(*translations.Entity)(nil),
		(*translations.Translation)(nil),
		(*permissions.Grant)(nil),
		(*notifications.Notification)(nil),
		(*usersactivity.Entry)(nil),
	}
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS project_locales_pair_idx ON project_locales (project_id, locale_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS tags_project_slug_idx ON tags (project_id, slug)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS resources_project_path_idx ON resources (project_id, path)`,
	`CREATE INDEX IF NOT EXISTS entities_resource_key_idx ON entities (resource_id, key)`,
	`CREATE INDEX IF NOT EXISTS translations_entity_locale_idx ON translations (entity_id, locale_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS translations_active_idx ON translations (entity_id, locale_id) WHERE active`,
	`CREATE INDEX IF NOT EXISTS translator_grants_user_idx ON translator_grants (user_id)`,
	`CREATE INDEX IF NOT EXISTS notifications_recipient_idx ON notifications (recipient_id, unread)`,
	`CREATE INDEX IF NOT EXISTS user_activity_user_idx ON user_activity (user_id, created_at)`,
}

// CreateSchema creates every table and index if missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: create index: %w", err)
		}
	}
	return nil
}
