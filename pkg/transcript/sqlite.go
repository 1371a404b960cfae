package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorer persists transcript entries in a SQLite database. Use
// ":memory:" for an in-memory database.
type SQLiteStorer struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	hash        TEXT PRIMARY KEY,
	parent_hash TEXT,
	role        TEXT NOT NULL,
	content     TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_parent ON entries(parent_hash);
`

// NewSQLiteStorer opens (creating if needed) a SQLite-backed store at
// path.
func NewSQLiteStorer(path string) (*SQLiteStorer, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}

	return &SQLiteStorer{db: db}, nil
}

func (s *SQLiteStorer) Put(ctx context.Context, e *Entry) error {
	if e == nil {
		return fmt.Errorf("cannot put nil entry")
	}

	var parent sql.NullString
	if e.ParentHash != nil {
		parent = sql.NullString{String: *e.ParentHash, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (hash, parent_hash, role, content, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO NOTHING`,
		e.Hash, parent, string(e.Role), e.Content, e.Model,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("could not insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteStorer) Get(ctx context.Context, hash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT hash, parent_hash, role, content, model, created_at
		 FROM entries WHERE hash = ?`, hash)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound{Hash: hash}
	}
	if err != nil {
		return nil, fmt.Errorf("could not get entry: %w", err)
	}
	return e, nil
}

func (s *SQLiteStorer) Has(ctx context.Context, hash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM entries WHERE hash = ?`, hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not check entry: %w", err)
	}
	return true, nil
}

func (s *SQLiteStorer) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, parent_hash, role, content, model, created_at
		 FROM entries ORDER BY created_at, hash`)
	if err != nil {
		return nil, fmt.Errorf("could not list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStorer) Heads(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.hash, e.parent_hash, e.role, e.content, e.model, e.created_at
		 FROM entries e
		 WHERE NOT EXISTS (SELECT 1 FROM entries c WHERE c.parent_hash = e.hash)
		 ORDER BY e.created_at, e.hash`)
	if err != nil {
		return nil, fmt.Errorf("could not list heads: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStorer) History(ctx context.Context, hash string) ([]*Entry, error) {
	// Walk from the entry back to the root, then reverse
	var chain []*Entry
	cur := hash
	for {
		e, err := s.Get(ctx, cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, e)
		if e.ParentHash == nil {
			break
		}
		cur = *e.ParentHash
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (s *SQLiteStorer) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var parent sql.NullString
	var createdAt string

	if err := row.Scan(&e.Hash, &parent, &e.Role, &e.Content, &e.Model, &createdAt); err != nil {
		return nil, err
	}

	if parent.Valid {
		e.ParentHash = &parent.String
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("could not parse created_at: %w", err)
	}
	e.CreatedAt = ts

	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate entries: %w", err)
	}
	return out, nil
}
