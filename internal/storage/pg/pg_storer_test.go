//go:build integration

package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
	pkgtesting "github.com/DjordjeVuckovic/encyc-front/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCtx    context.Context
	testPool   *ConnectionPool
	testStorer *Storer
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "encyc_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}

	testStorer, err = NewStorer(testPool)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	testPool.Close()
	_ = pg.Terminate()
	os.Exit(code)
}

func truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, testStorer.DropCollections(testCtx))
}

func TestStorer_EnsureCollectionsIdempotent(t *testing.T) {
	require.NoError(t, testStorer.EnsureCollections(testCtx))
	require.NoError(t, testStorer.EnsureCollections(testCtx))
}

func TestStorer_UpsertReplaces(t *testing.T) {
	truncate(t)
	t1 := time.Date(2014, 5, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	require.NoError(t, testStorer.Upsert(testCtx, storage.Articles, "Manzanar", domain.ArticleDoc{Title: "Manzanar", Modified: t1}))
	require.NoError(t, testStorer.Upsert(testCtx, storage.Articles, "Manzanar", domain.ArticleDoc{Title: "Manzanar", Body: "v2", Modified: t2}))

	var got domain.ArticleDoc
	require.NoError(t, testStorer.Get(testCtx, storage.Articles, "Manzanar", &got))
	assert.Equal(t, "v2", got.Body)

	inv, err := testStorer.Inventory(testCtx, storage.Articles)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.True(t, t2.Equal(inv[0].Modified))
}

func TestStorer_GetMissing(t *testing.T) {
	truncate(t)

	var got domain.AuthorDoc
	err := testStorer.Get(testCtx, storage.Authors, "Nobody", &got)

	assert.True(t, apperr.IsNotFound(err))
}

func TestStorer_BulkAndList(t *testing.T) {
	truncate(t)

	docs := []storage.Keyed{
		{ID: "Tule Lake", Doc: domain.ArticleDoc{Title: "Tule Lake", TitleSort: "tule lake"}},
		{ID: "Amache", Doc: domain.ArticleDoc{Title: "Amache", TitleSort: "amache"}},
		{ID: "Gila River", Doc: domain.ArticleDoc{Title: "Gila River", TitleSort: "gila river"}},
	}
	require.NoError(t, testStorer.UpsertBulk(testCtx, storage.Articles, docs))

	res, err := testStorer.List(testCtx, storage.Articles, pagination.OffsetRequest{Page: 1, Size: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Items, 2)
	assert.Contains(t, string(res.Items[0]), "Amache")
	assert.Contains(t, string(res.Items[1]), "Gila River")
}

func TestStorer_Delete(t *testing.T) {
	truncate(t)
	require.NoError(t, testStorer.Upsert(testCtx, storage.Sources, "en-x", domain.PrimarySource{EncyclopediaID: "en-x"}))

	require.NoError(t, testStorer.Delete(testCtx, storage.Sources, "en-x"))
	require.NoError(t, testStorer.Delete(testCtx, storage.Sources, "en-x"))

	inv, err := testStorer.Inventory(testCtx, storage.Sources)
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestStorer_Healthy(t *testing.T) {
	assert.True(t, testStorer.Healthy(testCtx))
}
