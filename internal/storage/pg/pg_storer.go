// Package pg stores documents as jsonb rows in a single PostgreSQL table
// keyed by (collection, id).
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		sort_key   TEXT        NOT NULL,
		title      TEXT        NOT NULL DEFAULT '',
		modified   TIMESTAMPTZ,
		indexed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		doc        JSONB       NOT NULL,
		PRIMARY KEY (collection, id)
	);
	CREATE INDEX IF NOT EXISTS documents_sort_idx ON documents (collection, sort_key, id);
`

const upsertDocument = `
	INSERT INTO documents (collection, id, sort_key, title, modified, indexed_at, doc)
	VALUES ($1, $2, $3, $4, $5, now(), $6)
	ON CONFLICT (collection, id) DO UPDATE
	SET sort_key = EXCLUDED.sort_key,
	    title = EXCLUDED.title,
	    modified = EXCLUDED.modified,
	    indexed_at = EXCLUDED.indexed_at,
	    doc = EXCLUDED.doc
`

type Storer struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{pool: pool, db: pool.conn}, nil
}

func (s *Storer) Upsert(ctx context.Context, c storage.Collection, id string, doc any) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	env, err := storage.Encode(id, doc)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, upsertDocument, upsertArgs(c, env)...); err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", c, id, err)
	}
	return nil
}

// UpsertBulk sends all upserts in one batch inside a transaction.
func (s *Storer) UpsertBulk(ctx context.Context, c storage.Collection, docs []storage.Keyed) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range docs {
		env, err := storage.Encode(d.ID, d.Doc)
		if err != nil {
			return err
		}
		batch.Queue(upsertDocument, upsertArgs(c, env)...)
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("failed to bulk upsert %d %s: %w", len(docs), c, err)
	}

	slog.Info("Bulk upsert completed", "collection", c, "total", len(docs))
	return nil
}

func upsertArgs(c storage.Collection, env *storage.Envelope) []any {
	var modified *time.Time
	if !env.Modified.IsZero() {
		modified = &env.Modified
	}
	return []any{string(c), env.ID, env.SortKey, env.Title, modified, env.Raw}
}

func (s *Storer) Delete(ctx context.Context, c storage.Collection, id string) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, string(c), id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", c, id, err)
	}
	return nil
}

func (s *Storer) Get(ctx context.Context, c storage.Collection, id string, out any) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT doc FROM documents WHERE collection = $1 AND id = $2`, string(c), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NewNotFound(string(c), id)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s/%s: %w", c, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func (s *Storer) Inventory(ctx context.Context, c storage.Collection) (domain.Inventory, error) {
	if err := storage.CheckCollection(c); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `SELECT id, modified FROM documents WHERE collection = $1 ORDER BY id`, string(c))
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	defer rows.Close()

	var inv domain.Inventory
	for rows.Next() {
		var (
			id       string
			modified *time.Time
		)
		if err := rows.Scan(&id, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		entry := domain.InventoryEntry{ID: id, Kind: c.Kind()}
		if modified != nil {
			entry.Modified = modified.UTC()
		}
		inv = append(inv, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Storer) List(ctx context.Context, c storage.Collection, page pagination.OffsetRequest) (*pagination.OffsetResult[json.RawMessage], error) {
	if err := storage.CheckCollection(c); err != nil {
		return nil, err
	}
	_ = page.Validate()

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM documents WHERE collection = $1`, string(c)).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", c, err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1
		ORDER BY sort_key, id
		OFFSET $2 LIMIT $3`,
		string(c), page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c, err)
	}
	defer rows.Close()

	items := make([]json.RawMessage, 0, page.Size)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		items = append(items, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pagination.NewOffsetResult(items, total, page.Page, page.Size), nil
}

func (s *Storer) EnsureCollections(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// DropCollections removes every stored document. The table itself is kept
// so the schema stays under migration control.
func (s *Storer) DropCollections(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE TABLE documents`); err != nil {
		return fmt.Errorf("failed to truncate documents: %w", err)
	}
	return nil
}

// Healthy reports whether a pooled connection answers a ping.
func (s *Storer) Healthy(ctx context.Context) bool {
	return s.pool.Ping(ctx) == nil
}

func (s *Storer) Close() {
	s.pool.Close()
}

var _ storage.DocumentStore = (*Storer)(nil)
