package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// DatabaseFile is the file name inside the data directory.
const DatabaseFile = "history.db"

// Store owns the database connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database in dataDir.
// If dataDir is empty, defaults to ~/.pdfrag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pdfrag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// HistoryStore returns an IngestionHistoryStore backed by this store.
func (s *Store) HistoryStore() driven.IngestionHistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

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

// ==================== History Store ====================

// historyStore implements driven.IngestionHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.IngestionHistoryStore = (*historyStore)(nil)

// Save stores or updates a record.
func (h *historyStore) Save(ctx context.Context, rec domain.IngestionRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := h.store.db.ExecContext(ctx, `
		INSERT INTO ingestions (id, name, status, chunks_created, pages, ocr_pages, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			chunks_created = excluded.chunks_created,
			pages = excluded.pages,
			ocr_pages = excluded.ocr_pages,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, rec.ID, rec.Name, string(rec.Status), rec.ChunksCreated, rec.Pages, rec.OCRPages,
		nullString(rec.Error), rec.StartedAt.UnixNano(), nullableUnixNano(rec.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving ingestion: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (h *historyStore) Get(ctx context.Context, id string) (*domain.IngestionRecord, error) {
	row := h.store.db.QueryRowContext(ctx, `
		SELECT id, name, status, chunks_created, pages, ocr_pages, error, started_at, finished_at
		FROM ingestions WHERE id = ?
	`, id)
	return scanRecord(row)
}

// List returns the most recent records first. A limit of zero means all.
func (h *historyStore) List(ctx context.Context, limit int) ([]domain.IngestionRecord, error) {
	query := `
		SELECT id, name, status, chunks_created, pages, ocr_pages, error, started_at, finished_at
		FROM ingestions ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ingestions: %w", err)
	}
	defer rows.Close()

	records := []domain.IngestionRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingestions: %w", err)
	}
	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.IngestionRecord, error) {
	var (
		rec        domain.IngestionRecord
		status     string
		errMsg     sql.NullString
		startedAt  int64
		finishedAt sql.NullInt64
	)
	err := row.Scan(&rec.ID, &rec.Name, &status, &rec.ChunksCreated, &rec.Pages, &rec.OCRPages,
		&errMsg, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning ingestion: %w", err)
	}

	rec.Status = domain.IngestionStatus(status)
	rec.Error = errMsg.String
	rec.StartedAt = time.Unix(0, startedAt)
	if finishedAt.Valid {
		rec.FinishedAt = time.Unix(0, finishedAt.Int64)
	}
	return &rec, nil
}

// nullableUnixNano maps the zero time to NULL.
func nullableUnixNano(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixNano()
}

// nullString converts an empty string to nil for nullable columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
