// Package es stores documents in Elasticsearch, one index per collection.
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

const inventoryPageSize = 500

type Storer struct {
	client       *elasticsearch.TypedClient
	config       ClientConfig
	indexBuilder *IndexBuilder
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	if config.IndexPrefix == "" {
		config.IndexPrefix = "encyc"
	}

	storer := &Storer{
		client:       client,
		config:       config,
		indexBuilder: NewIndexBuilder(),
	}

	if err := storer.EnsureCollections(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indices exist: %w", err)
	}

	return storer, nil
}

// IndexName returns the index holding collection c.
func (e *Storer) IndexName(c storage.Collection) string {
	return e.config.IndexPrefix + "-" + string(c)
}

func (e *Storer) Upsert(ctx context.Context, c storage.Collection, id string, doc any) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	env, err := storage.Encode(id, doc)
	if err != nil {
		return err
	}

	res, err := e.client.Index(e.IndexName(c)).Id(id).Document(e.indexBuilder.mapToESDocument(env)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	slog.Debug("document indexed successfully", "id", id, "index", e.IndexName(c), "result", res.Result)
	return nil
}

// UpsertBulk writes many documents through the bulk API and refreshes the
// index so they are visible to the next read.
func (e *Storer) UpsertBulk(ctx context.Context, c storage.Collection, docs []storage.Keyed) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	indexName := e.IndexName(c)

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         indexName,
		Client:        e.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	// rejected counts documents that never reached the indexer. The indexer's
	// own results are read from bi.Stats once its workers have stopped.
	var rejected uint64

	for _, d := range docs {
		env, err := storage.Encode(d.ID, d.Doc)
		if err != nil {
			slog.Error("failed to encode document", "error", err, "id", d.ID)
			rejected++
			continue
		}
		docBytes, err := json.Marshal(e.indexBuilder.mapToESDocument(env))
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", d.ID)
			rejected++
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: d.ID,
				Body:       bytes.NewReader(docBytes),
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			rejected++
			slog.Error("failed to add document to bulk indexer", "error", err, "id", d.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}
	if _, err := e.client.Indices.Refresh().Index(indexName).Do(ctx); err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}

	stats := bi.Stats()
	failed := stats.NumFailed + rejected

	slog.Info("Bulk indexing completed",
		"successful", stats.NumFlushed,
		"failed", failed,
		"total", len(docs),
		"index", indexName)

	if failed > 0 {
		return fmt.Errorf("failed to index %d out of %d documents", failed, len(docs))
	}
	return nil
}

func (e *Storer) Delete(ctx context.Context, c storage.Collection, id string) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	res, err := e.client.Delete(e.IndexName(c), id).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	slog.Debug("document deleted", "id", id, "index", e.IndexName(c), "result", res.Result)
	return nil
}

func (e *Storer) Get(ctx context.Context, c storage.Collection, id string, out any) error {
	if err := storage.CheckCollection(c); err != nil {
		return err
	}
	res, err := e.client.Get(e.IndexName(c), id).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if !res.Found {
		return apperr.NewNotFound(string(c), id)
	}

	var doc Document
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if err := json.Unmarshal(doc.Doc, out); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}

func (e *Storer) Inventory(ctx context.Context, c storage.Collection) (domain.Inventory, error) {
	if err := storage.CheckCollection(c); err != nil {
		return nil, err
	}
	asc := sortorder.Asc
	var inv domain.Inventory
	var after []types.FieldValue

	for {
		req := e.client.Search().
			Index(e.IndexName(c)).
			Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
			Size(inventoryPageSize).
			Sort(&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"doc_id": {Order: &asc},
				},
			})
		if after != nil {
			req = req.SearchAfter(after...)
		}

		res, err := req.Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory: %w", err)
		}

		for _, hit := range res.Hits.Hits {
			var doc Document
			if err := json.Unmarshal(hit.Source_, &doc); err != nil {
				return nil, fmt.Errorf("failed to unmarshal document: %w", err)
			}
			entry := domain.InventoryEntry{ID: doc.DocID, Kind: c.Kind()}
			if doc.Modified != nil {
				entry.Modified = *doc.Modified
			}
			inv = append(inv, entry)
		}

		if len(res.Hits.Hits) < inventoryPageSize {
			break
		}
		after = res.Hits.Hits[len(res.Hits.Hits)-1].Sort
	}

	slog.Debug("Es inventory fetched", "index", e.IndexName(c), "count", len(inv))
	return inv, nil
}

func (e *Storer) List(ctx context.Context, c storage.Collection, page pagination.OffsetRequest) (*pagination.OffsetResult[json.RawMessage], error) {
	if err := storage.CheckCollection(c); err != nil {
		return nil, err
	}
	_ = page.Validate()
	asc := sortorder.Asc

	res, err := e.client.Search().
		Index(e.IndexName(c)).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		From(page.Offset()).
		Size(page.Size).
		Sort(
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"sort_key": {Order: &asc},
				},
			},
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"doc_id": {Order: &asc},
				},
			},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	items := make([]json.RawMessage, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc Document
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		items = append(items, doc.Doc)
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	return pagination.NewOffsetResult(items, total, page.Page, page.Size), nil
}

func (e *Storer) EnsureCollections(ctx context.Context) error {
	for _, c := range storage.Collections() {
		if err := e.EnsureIndex(ctx, e.IndexName(c)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Storer) EnsureIndex(ctx context.Context, indexName string) error {
	existsRes, err := e.client.Indices.Exists(indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", indexName)
		return nil
	}

	settings := e.indexBuilder.buildSettings()

	mappings := e.indexBuilder.buildMapping()

	createRes, err := e.client.Indices.Create(indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", indexName)
	return nil
}

func (e *Storer) DropCollections(ctx context.Context) error {
	for _, c := range storage.Collections() {
		indexName := e.IndexName(c)
		exists, err := e.client.Indices.Exists(indexName).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to check if index exists: %w", err)
		}
		if !exists {
			continue
		}
		if _, err := e.client.Indices.Delete(indexName).Do(ctx); err != nil {
			return fmt.Errorf("failed to delete index %s: %w", indexName, err)
		}
		slog.Info("Index deleted", "index", indexName)
	}
	return nil
}

// Healthy reports whether the cluster answers a ping.
func (e *Storer) Healthy(ctx context.Context) bool {
	ok, err := e.client.Ping().Do(ctx)
	return err == nil && ok
}

func (e *Storer) Close() {}

var _ storage.DocumentStore = (*Storer)(nil)
