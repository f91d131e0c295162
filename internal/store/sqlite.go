package store

import (
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the current schema version.
const SchemaVersion = "1"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expressions (
			name TEXT PRIMARY KEY,
			raw TEXT NOT NULL,
			normalized TEXT NOT NULL,
			kind TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}
	if err := s.setMetadata("schema_version", SchemaVersion); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Get retrieves an expression by name.
func (s *SQLite) Get(name string) (*SavedExpression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT name, raw, normalized, kind, created_at, updated_at FROM expressions WHERE name = ?`, name)
	se, err := scanExpression(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return se, err
}

// Put stores an expression, preserving the original creation time on update.
// The timestamps are written back onto the passed struct.
func (s *SQLite) Put(se *SavedExpression) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stored at second precision; truncate so the write-back matches reads.
	now := time.Now().UTC().Truncate(time.Second)
	created := se.CreatedAt
	if created.IsZero() {
		created = now
	}
	var prev int64
	err := s.db.QueryRow(`SELECT created_at FROM expressions WHERE name = ?`, se.Name).Scan(&prev)
	switch {
	case err == nil:
		created = time.Unix(prev, 0).UTC()
	case err != sql.ErrNoRows:
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO expressions (name, raw, normalized, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			raw = excluded.raw,
			normalized = excluded.normalized,
			kind = excluded.kind,
			updated_at = excluded.updated_at`,
		se.Name, se.Raw, se.Normalized, se.Kind, created.Unix(), now.Unix())
	if err != nil {
		return err
	}
	se.CreatedAt = created
	se.UpdatedAt = now
	return nil
}

// Delete removes an expression by name.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM expressions WHERE name = ?`, name)
	return err
}

// List returns all saved expressions ordered by name.
func (s *SQLite) List() ([]*SavedExpression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT name, raw, normalized, kind, created_at, updated_at FROM expressions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SavedExpression
	for rows.Next() {
		se, err := scanExpression(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) setMetadata(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpression(r rowScanner) (*SavedExpression, error) {
	var se SavedExpression
	var created, updated int64
	if err := r.Scan(&se.Name, &se.Raw, &se.Normalized, &se.Kind, &created, &updated); err != nil {
		return nil, err
	}
	se.CreatedAt = time.Unix(created, 0).UTC()
	se.UpdatedAt = time.Unix(updated, 0).UTC()
	return &se, nil
}
