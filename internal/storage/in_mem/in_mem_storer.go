// Package in_mem keeps documents in process memory. It backs tests and
// single-process development setups.
package in_mem

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[storage.Collection]map[string]*storage.Envelope
}

func NewInMemStorer() *InMemStorer {
	s := &InMemStorer{}
	s.reset()
	return s
}

func (s *InMemStorer) reset() {
	s.storage = make(map[storage.Collection]map[string]*storage.Envelope)
	for _, c := range storage.Collections() {
		s.storage[c] = make(map[string]*storage.Envelope)
	}
}

func (s *InMemStorer) Upsert(ctx context.Context, c storage.Collection, id string, doc any) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	env, err := storage.Encode(id, doc)
	if err != nil {
		return err
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.storage[c][id] = env
	return nil
}

func (s *InMemStorer) UpsertBulk(ctx context.Context, c storage.Collection, docs []storage.Keyed) error {
	for _, d := range docs {
		if err := s.Upsert(ctx, c, d.ID, d.Doc); err != nil {
			return err
		}
	}
	slog.Debug("Saved documents to in-memory storage", "collection", c, "count", len(docs))
	return nil
}

func (s *InMemStorer) Delete(ctx context.Context, c storage.Collection, id string) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	delete(s.storage[c], id)
	return nil
}

func (s *InMemStorer) Get(ctx context.Context, c storage.Collection, id string, out any) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	s.storageLock.RLock()
	env, ok := s.storage[c][id]
	s.storageLock.RUnlock()
	if !ok {
		return apperr.NewNotFound(string(c), id)
	}
	if err := json.Unmarshal(env.Raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func (s *InMemStorer) Inventory(ctx context.Context, c storage.Collection) (domain.Inventory, error) {
	if err := storage.CheckCollection(c); err != nil {
		return nil, err
	}
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	inv := make(domain.Inventory, 0, len(s.storage[c]))
	for id, env := range s.storage[c] {
		inv = append(inv, domain.InventoryEntry{ID: id, Modified: env.Modified, Kind: c.Kind()})
	}
	sort.Slice(inv, func(i, j int) bool { return inv[i].ID < inv[j].ID })
	return inv, nil
}

func (s *InMemStorer) List(ctx context.Context, c storage.Collection, page pagination.OffsetRequest) (*pagination.OffsetResult[json.RawMessage], error) {
	if err := storage.CheckCollection(c); err != nil {
		return nil, err
	}
	_ = page.Validate()

	s.storageLock.RLock()
	envs := make([]*storage.Envelope, 0, len(s.storage[c]))
	for _, env := range s.storage[c] {
		envs = append(envs, env)
	}
	s.storageLock.RUnlock()

	sort.Slice(envs, func(i, j int) bool {
		if envs[i].SortKey != envs[j].SortKey {
			return envs[i].SortKey < envs[j].SortKey
		}
		return envs[i].ID < envs[j].ID
	})

	start := min(page.Offset(), len(envs))
	end := min(start+page.Size, len(envs))
	items := make([]json.RawMessage, 0, end-start)
	for _, env := range envs[start:end] {
		items = append(items, env.Raw)
	}
	return pagination.NewOffsetResult(items, int64(len(envs)), page.Page, page.Size), nil
}

func (s *InMemStorer) EnsureCollections(ctx context.Context) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	for _, c := range storage.Collections() {
		if s.storage[c] == nil {
			s.storage[c] = make(map[string]*storage.Envelope)
		}
	}
	return nil
}

func (s *InMemStorer) DropCollections(ctx context.Context) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.reset()
	return nil
}

func (s *InMemStorer) Healthy(ctx context.Context) bool {
	return true
}

func (s *InMemStorer) Close() {}

var _ storage.DocumentStore = (*InMemStorer)(nil)
