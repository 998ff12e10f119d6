package store

import (
	"context"
	"io/fs"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Migrate applies the embedded SQL migrations in filename order, tracking
// applied files in schema_migrations so reruns are no-ops.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create migrations table")
	}

	entries, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read migrations")
	}
	sort.Strings(entries)

	for _, name := range entries {
		var applied int
		if err := db.NewRaw("SELECT COUNT(*) FROM schema_migrations WHERE name = ?", name).
			Scan(ctx, &applied); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to check migration state")
		}
		if applied > 0 {
			continue
		}

		script, err := migrationsFS.ReadFile(name)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to read migration "+name)
		}

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES (?)", name)
			return err
		})
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "migration "+name+" failed")
		}
	}

	return nil
}
