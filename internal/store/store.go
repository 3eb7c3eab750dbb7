package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/canvas-editor/backend-go/internal/document"
	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

// ErrNotFound is returned when a document has no snapshot. It aliases document.ErrNotFound.
var ErrNotFound = document.ErrNotFound

//go:embed schema.sql
var schemaSQL string

const (
	loadDocumentSQL = `SELECT version, document FROM document_snapshots WHERE document_id = $1 ORDER BY version DESC LIMIT 1`

	saveDocumentSQL = `INSERT INTO document_snapshots (id, document_id, version, document)
SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3 FROM document_snapshots WHERE document_id = $2
RETURNING version`
)

// DBPool is the subset of pgxpool.Pool the store needs, so tests can swap in pgxmock.
type DBPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool connects to PostgreSQL and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Store persists documents as append-only versioned snapshots.
type Store struct {
	pool DBPool
	log  *slog.Logger
}

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *slog.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		pool: pool,
		log:  logger.With("component", "store"),
	}, nil
}

// Migrate creates the snapshot table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// LoadDocument returns the latest snapshot of a document.
func (s *Store) LoadDocument(ctx context.Context, documentID string) (*document.Document, error) {
	var (
		version int
		data    []byte
	)
	err := s.pool.QueryRow(ctx, loadDocumentSQL, documentID).Scan(&version, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", documentID, err)
	}
	doc.ID = documentID
	doc.Version = version
	return &doc, nil
}

// SaveDocument appends a snapshot one version above the latest stored one, and
// stamps the new version on doc.
func (s *Store) SaveDocument(ctx context.Context, doc *document.Document) (int, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}

	var version int
	err = s.pool.QueryRow(ctx, saveDocumentSQL, typeid.NewSnapshotID(), doc.ID, data).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}

	doc.Version = version
	s.log.Debug("document saved", "document", doc.ID, "version", version, "elements", len(doc.Elements))
	return version, nil
}
