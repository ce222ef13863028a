//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	pkgtesting "github.com/DjordjeVuckovic/encyc-front/pkg/testing"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Integration(t *testing.T) {
	ctx := context.Background()
	pg := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := pgxpool.New(ctx, pg.ConnString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	c := NewPostgres(pool)

	_, ok, err := c.Get(ctx, "wiki:page:Tule_Lake")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "wiki:page:Tule_Lake", []byte(`{"title":"Tule Lake"}`), time.Minute))
	got, ok, err := c.Get(ctx, "wiki:page:Tule_Lake")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"title":"Tule Lake"}`, string(got))

	require.NoError(t, c.Set(ctx, "wiki:page:Manzanar", []byte(`{}`), 10*time.Millisecond))
	time.Sleep(50 * time.Millisecond)
	_, ok, err = c.Get(ctx, "wiki:page:Manzanar")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are misses")

	purged, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, c.Delete(ctx, "wiki:page:Tule_Lake"))
	_, ok, err = c.Get(ctx, "wiki:page:Tule_Lake")
	require.NoError(t, err)
	assert.False(t, ok)
}
