package es

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bulkServer answers _bulk and _refresh like Elasticsearch. Documents whose id
// starts with "bad-" are rejected with a mapping error.
type bulkServer struct {
	mu       sync.Mutex
	received int
}

func (b *bulkServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/_refresh"):
		_, _ = w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		var items []string
		hasErrors := false
		var body io.Reader = r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer zr.Close()
			body = zr
		}
		sc := bufio.NewScanner(body)
		sc.Buffer(make([]byte, 1<<20), 1<<20)
		meta := true
		for sc.Scan() {
			line := sc.Text()
			if line == "" {
				continue
			}
			if meta {
				var action map[string]struct {
					ID string `json:"_id"`
				}
				_ = json.Unmarshal([]byte(line), &action)
				id := action["index"].ID
				if strings.HasPrefix(id, "bad-") {
					hasErrors = true
					items = append(items, fmt.Sprintf(`{"index":{"_id":%q,"status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse"}}}`, id))
				} else {
					items = append(items, fmt.Sprintf(`{"index":{"_id":%q,"status":201,"result":"created"}}`, id))
				}
			}
			meta = !meta
		}
		b.mu.Lock()
		b.received += len(items)
		b.mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"took":1,"errors":%t,"items":[%s]}`, hasErrors, strings.Join(items, ","))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}
}

func (b *bulkServer) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.received
}

func newFakeStorer(t *testing.T, srv *httptest.Server) *Storer {
	t.Helper()
	client, err := newClient(ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &Storer{
		client:       client,
		config:       ClientConfig{IndexPrefix: "encyc-test"},
		indexBuilder: NewIndexBuilder(),
	}
}

func sourceDocs(good, bad int) []storage.Keyed {
	var docs []storage.Keyed
	for i := 0; i < good; i++ {
		id := fmt.Sprintf("en-denshopd-i37-%05d", i)
		docs = append(docs, storage.Keyed{ID: id, Doc: domain.PrimarySource{EncyclopediaID: id, MediaFormat: domain.MediaImage}})
	}
	for i := 0; i < bad; i++ {
		id := fmt.Sprintf("bad-%05d", i)
		docs = append(docs, storage.Keyed{ID: id, Doc: domain.PrimarySource{EncyclopediaID: id, MediaFormat: domain.MediaImage}})
	}
	return docs
}

func TestStorer_UpsertBulk_ReportsEveryFailedItem(t *testing.T) {
	fake := &bulkServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	s := newFakeStorer(t, srv)

	err := s.UpsertBulk(context.Background(), storage.Sources, sourceDocs(200, 37))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to index 37 out of 237 documents")
	assert.Equal(t, 237, fake.count())
}

func TestStorer_UpsertBulk_AllIndexed(t *testing.T) {
	srv := httptest.NewServer(&bulkServer{})
	defer srv.Close()
	s := newFakeStorer(t, srv)

	assert.NoError(t, s.UpsertBulk(context.Background(), storage.Sources, sourceDocs(120, 0)))
}
