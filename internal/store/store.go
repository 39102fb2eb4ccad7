// Package store persists chunk records in SQLite for later indexing.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/record"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var (
	// ErrNotFound is returned when a document is not stored.
	ErrNotFound = errors.New("not found")
	// ErrClosed is returned by a Lazy handle after Close.
	ErrClosed = errors.New("store closed")
)

// DocumentInfo summarizes one stored document.
type DocumentInfo struct {
	ID          string    `json:"doc_id"`
	SourcePath  string    `json:"source_path"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	ContentHash string    `json:"content_hash"`
	Strategy    string    `json:"strategy"`
	ChunkCount  int       `json:"chunk_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is a SQLite-backed chunk store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies
// migrations. Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := applyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument replaces a document's stored chunk set in one transaction.
func (s *Store) SaveDocument(ctx context.Context, doc doctree.Document, contentHash, strategy string, records []record.Record) error {
	keywords, err := json.Marshal(nonNil(doc.Keywords))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("clear chunks for %s: %w", doc.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (doc_id, source_path, title, description, keywords, slug, content_hash, strategy, chunk_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			source_path = excluded.source_path,
			title = excluded.title,
			description = excluded.description,
			keywords = excluded.keywords,
			slug = excluded.slug,
			content_hash = excluded.content_hash,
			strategy = excluded.strategy,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Path, doc.Title, doc.Description, string(keywords), doc.Slug,
		contentHash, strategy, len(records), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (doc_id, idx, chunk_key, header_path, text, char_len, char_start, char_end,
			byte_start, byte_end, token_estimate, part, parts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		path, err := json.Marshal(nonNil(r.HeaderPath))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, r.Index, r.Key, string(path), r.Text,
			r.CharLen, r.CharStart, r.CharEnd, r.ByteStart, r.ByteEnd, r.TokenEstimate, r.Part, r.Parts); err != nil {
			return fmt.Errorf("insert chunk %s: %w", r.Key, err)
		}
	}
	return tx.Commit()
}

// Chunks returns a document's records in index order.
func (s *Store) Chunks(ctx context.Context, docID string) ([]record.Record, error) {
	info, err := s.Document(ctx, docID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, chunk_key, header_path, text, char_len, char_start, char_end,
			byte_start, byte_end, token_estimate, part, parts
		FROM chunks WHERE doc_id = ? ORDER BY idx`, docID)
	if err != nil {
		return nil, fmt.Errorf("query chunks for %s: %w", docID, err)
	}
	defer rows.Close()

	records := make([]record.Record, 0, info.ChunkCount)
	for rows.Next() {
		r := record.Record{
			DocID:       docID,
			SourcePath:  info.SourcePath,
			Title:       info.Title,
			Description: info.Description,
			Keywords:    info.Keywords,
			Slug:        info.Slug,
			Strategy:    info.Strategy,
		}
		var path string
		if err := rows.Scan(&r.Index, &r.Key, &path, &r.Text, &r.CharLen, &r.CharStart, &r.CharEnd,
			&r.ByteStart, &r.ByteEnd, &r.TokenEstimate, &r.Part, &r.Parts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(path), &r.HeaderPath); err != nil {
			return nil, fmt.Errorf("decode header path of %s: %w", r.Key, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Document returns one document's summary.
func (s *Store) Document(ctx context.Context, docID string) (DocumentInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT doc_id, source_path, title, description, keywords, slug, content_hash, strategy, chunk_count, updated_at
		FROM documents WHERE doc_id = ?`, docID)
	info, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentInfo{}, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return info, err
}

// Documents lists stored documents ordered by id.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, source_path, title, description, keywords, slug, content_hash, strategy, chunk_count, updated_at
		FROM documents ORDER BY doc_id`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []DocumentInfo{}
	for rows.Next() {
		info, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, info)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", docID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return tx.Commit()
}

// ContentHash returns the stored content hash, or ErrNotFound.
func (s *Store) ContentHash(ctx context.Context, docID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM documents WHERE doc_id = ?`, docID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return hash, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (DocumentInfo, error) {
	var info DocumentInfo
	var keywords, updated string
	if err := row.Scan(&info.ID, &info.SourcePath, &info.Title, &info.Description, &keywords, &info.Slug,
		&info.ContentHash, &info.Strategy, &info.ChunkCount, &updated); err != nil {
		return DocumentInfo{}, err
	}
	if err := json.Unmarshal([]byte(keywords), &info.Keywords); err != nil {
		return DocumentInfo{}, fmt.Errorf("decode keywords of %s: %w", info.ID, err)
	}
	if len(info.Keywords) == 0 {
		info.Keywords = nil
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		info.UpdatedAt = t
	}
	return info, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
