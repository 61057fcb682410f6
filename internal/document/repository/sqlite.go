package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_owner_status ON documents (owner_id, status, updated_at);`

const documentColumns = `id, owner_id, title, body, status, created_at, updated_at`

// SQLiteRepo implements Repository on a SQLite database opened with the sqlite3 driver.
// Timestamps are stored as RFC 3339 text so they sort lexically.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo creates the documents table when missing.
func NewSQLiteRepo(ctx context.Context, db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (s *SQLiteRepo) Create(ctx context.Context, doc *document.Document) (string, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Body, string(doc.Status),
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (s *SQLiteRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

func (s *SQLiteRepo) FindDraftByOwner(ctx context.Context, ownerID string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE owner_id = ? AND status = ? ORDER BY updated_at DESC LIMIT 1`,
		ownerID, string(document.StatusDraft))
	return scanDocument(row)
}

func (s *SQLiteRepo) List(ctx context.Context) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*document.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteRepo) Update(ctx context.Context, doc *document.Document) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET owner_id = ?, title = ?, body = ?, status = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		doc.OwnerID, doc.Title, doc.Body, string(doc.Status),
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt), doc.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (s *SQLiteRepo) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (s *SQLiteRepo) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*document.Document, error) {
	var (
		d                document.Document
		status           string
		created, updated string
	)
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Title, &d.Body, &status, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d.Status = document.Status(status)
	var err error
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	return &d, nil
}

// formatTime uses a fixed-width layout so ORDER BY on the text column is chronological.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
