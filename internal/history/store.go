package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"bookbinder/internal/conversion"
)

const entryColumns = "id, run_id, source_dir, title, success, output_path, duration_seconds, size_bytes, encoder, chapters, telegram_compatible, warning, error_message, elapsed_ms, created_at"

// Entry is one recorded conversion.
type Entry struct {
	ID        int64             `json:"id"`
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Result    conversion.Result `json:"result"`
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one result under runID.
func (s *Store) Record(ctx context.Context, runID string, result conversion.Result) error {
	if s == nil || s.db == nil {
		return errors.New("history store is closed")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO conversions (
            run_id, source_dir, title, success, output_path, duration_seconds,
            size_bytes, encoder, chapters, telegram_compatible, warning,
            error_message, elapsed_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		result.SourceDir,
		result.Title,
		boolToInt(result.Success),
		nullableString(result.OutputPath),
		result.DurationSeconds,
		result.SizeBytes,
		nullableString(result.Encoder),
		result.Chapters,
		nullableBool(result.Compatible),
		nullableString(result.Warning),
		nullableString(result.Error),
		result.Elapsed.Milliseconds(),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// List returns the newest entries first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM conversions ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return entries, nil
}

// Prune deletes entries recorded before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversions WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune conversions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry      Entry
		success    int64
		output     sql.NullString
		encoder    sql.NullString
		compatible sql.NullInt64
		warning    sql.NullString
		errMsg     sql.NullString
		elapsedMS  int64
		createdRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Result.SourceDir,
		&entry.Result.Title,
		&success,
		&output,
		&entry.Result.DurationSeconds,
		&entry.Result.SizeBytes,
		&encoder,
		&entry.Result.Chapters,
		&compatible,
		&warning,
		&errMsg,
		&elapsedMS,
		&createdRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan conversion: %w", err)
	}

	entry.Result.Success = success != 0
	entry.Result.OutputPath = output.String
	entry.Result.Encoder = encoder.String
	entry.Result.Warning = warning.String
	entry.Result.Error = errMsg.String
	entry.Result.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if compatible.Valid {
		v := compatible.Int64 != 0
		entry.Result.Compatible = &v
	}
	created, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	entry.CreatedAt = created
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return boolToInt(*value)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
