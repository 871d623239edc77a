package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationTable = "schema_migrations"

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies pending schema migrations and returns how many ran.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	ms := migrate.MigrationSet{TableName: migrationTable}
	n, err := ms.ExecContext(ctx, db, "postgres", migrationSource(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return n, nil
}

// Rollback reverts at most steps migrations. Zero reverts all of them.
func Rollback(ctx context.Context, db *sql.DB, steps int) (int, error) {
	ms := migrate.MigrationSet{TableName: migrationTable}
	n, err := ms.ExecMaxContext(ctx, db, "postgres", migrationSource(), migrate.Down, steps)
	if err != nil {
		return n, fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return n, nil
}
