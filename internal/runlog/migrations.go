package runlog

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ledgerMigration is one numbered schema step, loaded from
// migrations/NNN_name.sql. The stem is what schema_migrations records.
type ledgerMigration struct {
	version int
	stem    string
	sql     string
}

func loadMigrations() ([]ledgerMigration, error) {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list ledger migrations: %w", err)
	}

	migrations := make([]ledgerMigration, 0, len(files))
	seen := make(map[int]string, len(files))
	for _, file := range files {
		stem := strings.TrimSuffix(path.Base(file), ".sql")
		number, _, ok := strings.Cut(stem, "_")
		version, convErr := strconv.Atoi(number)
		if !ok || convErr != nil || version < 1 {
			return nil, fmt.Errorf("ledger migration %s: name must look like NNN_name.sql", file)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("ledger migrations %s and %s share version %d", other, stem, version)
		}
		seen[version] = stem

		data, err := migrationFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read ledger migration %s: %w", stem, err)
		}
		migrations = append(migrations, ledgerMigration{version: version, stem: stem, sql: string(data)})
	}
	slices.SortFunc(migrations, func(a, b ledgerMigration) int { return cmp.Compare(a.version, b.version) })
	return migrations, nil
}

// applyMigrations brings the ledger up to the newest embedded schema and
// records the resulting version on the store. A ledger carrying steps this
// binary does not know was written by a newer clippair and is refused.
func (s *Store) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, tx)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(migrations))
	for _, m := range migrations {
		known[m.stem] = struct{}{}
	}
	for stem := range applied {
		if _, ok := known[stem]; !ok {
			return fmt.Errorf("run ledger %s has schema step %s unknown to this clippair; upgrade clippair", s.path, stem)
		}
	}

	for _, m := range migrations {
		if _, done := applied[m.stem]; done {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply ledger migration %s: %w", m.stem, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.stem); err != nil {
			return fmt.Errorf("record ledger migration %s: %w", m.stem, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	if len(migrations) > 0 {
		s.schema = migrations[len(migrations)-1].version
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func appliedMigrations(ctx context.Context, q queryer) (map[string]struct{}, error) {
	rows, err := q.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var stem string
		if err := rows.Scan(&stem); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[stem] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema_migrations: %w", err)
	}
	return applied, nil
}

// SchemaVersion reports the ledger schema version the store migrated to.
func (s *Store) SchemaVersion() int {
	return s.schema
}
