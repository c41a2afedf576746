package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"clippair/internal/config"
)

var (
	// ErrNotFound is returned when no run matches an identifier.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguous is returned when an identifier prefix matches several runs.
	ErrAmbiguous = errors.New("run identifier is ambiguous")
)

// timestampLayout keeps a fixed fraction width so created_at sorts as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, created_at, policy, catalogue_path, output_path,
    entry_count, candidate_count, pair_count, duplicate_count, skipped_groups, collision_count,
    seed, k, path_prefix, id_width, output_sha256, collision, pivots_json`

// Store manages the run ledger backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	schema int
}

// Open creates the state directory if needed and opens the ledger inside it.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.RunLogPath())
}

// OpenPath initializes or connects to the ledger at dbPath and applies migrations.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts run, assigning an ID and timestamp when they are unset, and
// returns the stored copy.
func (s *Store) Record(ctx context.Context, run Run) (*Run, error) {
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	pivots, err := encodePivots(run.Pivots)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(timestampLayout),
		run.Policy,
		run.CataloguePath,
		run.OutputPath,
		run.Entries,
		run.Candidates,
		run.Pairs,
		run.Duplicates,
		run.SkippedGroups,
		run.Collisions,
		run.Seed,
		run.SampleSize,
		run.PathPrefix,
		run.IDWidth,
		run.OutputSHA256,
		run.Collision,
		pivots,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &run, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get fetches a run by its full identifier or a unique prefix of it.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 2`,
		len(id), id,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// FindByDigest returns runs whose output matched sha, newest first.
func (s *Store) FindByDigest(ctx context.Context, sha string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE output_sha256 = ? ORDER BY created_at DESC, id DESC`,
		strings.ToLower(strings.TrimSpace(sha)),
	)
	if err != nil {
		return nil, fmt.Errorf("find runs by digest: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run       Run
		createdAt string
		pivots    string
	)
	if err := scanner.Scan(
		&run.ID,
		&createdAt,
		&run.Policy,
		&run.CataloguePath,
		&run.OutputPath,
		&run.Entries,
		&run.Candidates,
		&run.Pairs,
		&run.Duplicates,
		&run.SkippedGroups,
		&run.Collisions,
		&run.Seed,
		&run.SampleSize,
		&run.PathPrefix,
		&run.IDWidth,
		&run.OutputSHA256,
		&run.Collision,
		&pivots,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	ts, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for run %s: %w", run.ID, err)
	}
	run.CreatedAt = ts
	if err := json.Unmarshal([]byte(pivots), &run.Pivots); err != nil {
		return nil, fmt.Errorf("decode pivots for run %s: %w", run.ID, err)
	}
	if len(run.Pivots) == 0 {
		run.Pivots = nil
	}
	return &run, nil
}

func encodePivots(pivots map[string]string) (string, error) {
	if len(pivots) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(pivots)
	if err != nil {
		return "", fmt.Errorf("encode pivots: %w", err)
	}
	return string(data), nil
}
