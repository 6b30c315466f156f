package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kensaku/internal/models"
	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		doc_id INTEGER NOT NULL,
		filename TEXT NOT NULL,
		filetype TEXT NOT NULL,
		content TEXT NOT NULL,
		location TEXT NOT NULL,
		title TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, doc_id)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_filename ON documents(collection, filename);
	`
	_, err := db.Exec(schema)
	return err
}

// Add inserts doc into its collection, allocating the next id inside a
// transaction so concurrent writers never collide.
func (s *SQLiteStorage) Add(ctx context.Context, doc *models.Document) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", apperrors.ErrStorage, err)
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(doc_id), 0) + 1 FROM documents WHERE collection = ?`,
		string(doc.FileType),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("%w: allocate id: %v", apperrors.ErrStorage, err)
	}

	doc.ID = next
	doc.Timestamp = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, doc_id, filename, filetype, content, location, title, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(doc.FileType), doc.ID, doc.Filename, string(doc.FileType), doc.Content, doc.Location, doc.Title, doc.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %v", apperrors.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", apperrors.ErrStorage, err)
	}
	return next, nil
}

// Get returns the document stored under (collection, id).
func (s *SQLiteStorage) Get(ctx context.Context, collection string, id int64) (*models.Document, error) {
	var doc models.Document
	var filetype string

	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id, filename, filetype, content, location, title, created_at
		 FROM documents WHERE collection = ? AND doc_id = ?`,
		collection, id,
	).Scan(&doc.ID, &doc.Filename, &filetype, &doc.Content, &doc.Location, &doc.Title, &doc.Timestamp)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: document %s/%d", apperrors.ErrNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	doc.FileType = models.FileType(filetype)
	return &doc, nil
}

// Clear removes every record of one collection. The id sequence restarts at 1
// because ids are allocated from MAX(doc_id).
func (s *SQLiteStorage) Clear(ctx context.Context, collection string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("%w: clear %s: %v", apperrors.ErrStorage, collection, err)
	}
	return nil
}

// Count returns the number of documents in one collection.
func (s *SQLiteStorage) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count %s: %v", apperrors.ErrStorage, collection, err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
