package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/memoria-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed translation memory database. A single file
// holds all named TM stores; Units returns a handle scoped to one of
// them.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates or opens the TM database in the specified data
// directory. If dataDir is empty, defaults to ~/.memoria/data/memoria.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".memoria", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memoria.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Units returns a UnitStore handle scoped to the named TM store.
// Units of other stores never appear through this handle.
func (s *Store) Units(name string) driven.UnitStore {
	return &unitStore{store: s, name: name}
}

// StoreNames returns the names of all TM stores that currently hold at
// least one unit, sorted alphabetically.
func (s *Store) StoreNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT store_id FROM units ORDER BY store_id")
	if err != nil {
		return nil, fmt.Errorf("querying store names: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning store name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating store names: %w", err)
	}

	return names, nil
}

// Compact merges the full-text index segments and reclaims free pages.
// Invoked on demand from the maintenance surface; queries keep working
// while it runs, only concurrent writers wait.
func (s *Store) Compact(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "INSERT INTO units_fts(units_fts) VALUES('optimize')"); err != nil {
		return fmt.Errorf("optimising full-text index: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuuming database: %w", err)
	}
	return nil
}

// Validate checks that every unit row has a matching full-text index
// entry and vice versa. With repair set, a failed check rebuilds the
// index from the unit rows.
func (s *Store) Validate(ctx context.Context, repair bool) (*domain.ValidationReport, error) {
	report := &domain.ValidationReport{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM units").Scan(&report.Units); err != nil {
		return nil, fmt.Errorf("counting units: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM units_fts").Scan(&report.Indexed); err != nil {
		return nil, fmt.Errorf("counting index entries: %w", err)
	}

	// The rank=1 form verifies the index against the content table.
	_, err := s.db.ExecContext(ctx, "INSERT INTO units_fts(units_fts, rank) VALUES('integrity-check', 1)")
	report.Healthy = err == nil && report.Units == report.Indexed

	if !report.Healthy && repair {
		if _, err := s.db.ExecContext(ctx, "INSERT INTO units_fts(units_fts) VALUES('rebuild')"); err != nil {
			return report, fmt.Errorf("rebuilding full-text index: %w", err)
		}
		report.Repaired = true
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM units_fts").Scan(&report.Indexed); err != nil {
			return report, fmt.Errorf("counting index entries after rebuild: %w", err)
		}
		report.Healthy = report.Units == report.Indexed
	}

	return report, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	latest := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		upFiles = append(upFiles, name)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err == nil && version > latest {
			latest = version
		}
	}
	sort.Strings(upFiles)

	// A file written by a newer build has migrations this build does
	// not know. Refuse to open rather than serve an unknown schema.
	if currentVersion > latest {
		return fmt.Errorf("database is at schema version %d, this build supports up to %d: %w",
			currentVersion, latest, domain.ErrSchemaVersion)
	}

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
