// Package storage defines the document store the sync job writes to and the
// API reads from. Records live in named collections and are addressed by
// their url title (or encyclopedia id for sources).
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
)

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type Collection string

const (
	Authors  Collection = "authors"
	Articles Collection = "articles"
	Sources  Collection = "sources"
)

// Collections lists every collection a store manages.
func Collections() []Collection {
	return []Collection{Authors, Articles, Sources}
}

// Kind maps a collection to the inventory kind of its records.
func (c Collection) Kind() domain.InventoryKind {
	switch c {
	case Authors:
		return domain.KindAuthor
	case Articles:
		return domain.KindArticle
	}
	return domain.InventoryKind(c)
}

func (c Collection) Valid() bool {
	switch c {
	case Authors, Articles, Sources:
		return true
	}
	return false
}

type Storer interface {
	// Upsert writes doc under id, replacing any previous version.
	Upsert(ctx context.Context, c Collection, id string, doc any) error
	UpsertBulk(ctx context.Context, c Collection, docs []Keyed) error
	Delete(ctx context.Context, c Collection, id string) error
}

type Reader interface {
	// Get decodes the record into out; apperr.NotFoundError when absent.
	Get(ctx context.Context, c Collection, id string, out any) error
	// Inventory returns id and modification time of every record.
	Inventory(ctx context.Context, c Collection) (domain.Inventory, error)
	// List returns records ordered by sort key, then id.
	List(ctx context.Context, c Collection, page pagination.OffsetRequest) (*pagination.OffsetResult[json.RawMessage], error)
}

type DocumentStore interface {
	Storer
	Reader
	EnsureCollections(ctx context.Context) error
	DropCollections(ctx context.Context) error
	Close()
}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
	ErrUnknownCollection StorerError = "unknown collection: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// Keyed pairs a document with its id for bulk writes.
type Keyed struct {
	ID  string
	Doc any
}

// Envelope is an encoded record with the fields every backend indexes.
type Envelope struct {
	ID       string
	Raw      []byte
	Title    string
	Modified time.Time
	SortKey  string
}

// Encode marshals doc and extracts its "title", "modified" and "title_sort"
// fields.
func Encode(id string, doc any) (*Envelope, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	var meta struct {
		Title     string           `json:"title"`
		Modified  domain.Timestamp `json:"modified"`
		TitleSort string           `json:"title_sort"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to read document %s metadata: %w", id, err)
	}

	sortKey := meta.TitleSort
	if sortKey == "" {
		sortKey = id
	}
	return &Envelope{ID: id, Raw: raw, Title: meta.Title, Modified: meta.Modified.Time, SortKey: sortKey}, nil
}

// CheckCollection rejects collections the stores do not manage.
func CheckCollection(c Collection) error {
	if !c.Valid() {
		return fmt.Errorf(string(ErrUnknownCollection), c)
	}
	return nil
}
