package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/citation"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/dto"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/settings"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modified = time.Date(2014, 5, 1, 0, 0, 0, 0, time.UTC)

type fakePages map[string]domain.Page

func (f fakePages) Page(_ context.Context, title string) (*domain.Page, error) {
	p, ok := f[title]
	if !ok {
		return nil, apperr.NewNotFound("page", title)
	}
	return &p, nil
}

type fakeSources map[string]domain.PrimarySource

func (f fakeSources) Source(_ context.Context, id string) (*domain.PrimarySource, error) {
	s, ok := f[id]
	if !ok {
		return nil, apperr.NewNotFound("source", id)
	}
	return &s, nil
}

type fakeCiter struct {
	authors []string
}

func (f *fakeCiter) Page(_ context.Context, title string, authors []string) (*citation.Citation, error) {
	f.authors = authors
	return &citation.Citation{Title: title, Authors: citation.FormatAuthors(authors)}, nil
}

func (f *fakeCiter) Source(_ context.Context, id string) (*citation.Citation, error) {
	if id != "en-denshopd-i37-00123" {
		return nil, apperr.NewNotFound("source", id)
	}
	return &citation.Citation{Title: id}, nil
}

type testEnv struct {
	e     *echo.Echo
	store *in_mem.InMemStorer
	citer *fakeCiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := in_mem.NewInMemStorer()

	require.NoError(t, store.Upsert(ctx, storage.Articles, "Tule Lake", domain.ArticleDoc{
		URLTitle: "Tule Lake", Title: "Tule Lake", TitleSort: "tule lake", Body: "<p>t</p>",
		Categories: []string{"Camps"}, SourceIDs: []string{"en-denshopd-i37-00123"},
		Authors: []string{"Brian Niiya"}, PrevPage: "Manzanar",
		Published: true, PublishedEncyc: true, Modified: modified,
	}))
	require.NoError(t, store.Upsert(ctx, storage.Articles, "Manzanar", domain.ArticleDoc{
		URLTitle: "Manzanar", Title: "Manzanar", TitleSort: "manzanar", NextPage: "Tule Lake",
		Published: true, PublishedEncyc: true, Modified: modified,
	}))
	require.NoError(t, store.Upsert(ctx, storage.Articles, "Timeline", domain.ArticleDoc{
		URLTitle: "Timeline", Title: "Timeline", TitleSort: "timeline",
		Published: true, PublishedEncyc: false, Modified: modified,
	}))
	require.NoError(t, store.Upsert(ctx, storage.Authors, "Brian Niiya", domain.AuthorDoc{
		URLTitle: "Brian Niiya", Title: "Brian Niiya", TitleSort: "niiya brian",
		Articles: []string{"Tule Lake"}, Modified: modified,
	}))
	require.NoError(t, store.Upsert(ctx, storage.Sources, "en-denshopd-i37-00123", domain.PrimarySource{
		EncyclopediaID: "en-denshopd-i37-00123",
		MediaFormat:    domain.MediaVideo,
		StreamingURL:   "rtmp://streaming.densho.org/denshostream/mp4:en-denshovh-i37.mp4",
	}))

	s := settings.Default()
	pipeline := transform.New(s, policy.New(false), nil, nil)
	pages := fakePages{
		"Tule Lake": {Title: "Tule Lake", Body: "<h1>Tule Lake</h1><p>Camp</p>", Categories: []string{"Published"}, Published: true},
		"Draft":     {Title: "Draft", Body: "<p>wip</p>"},
	}
	citer := &fakeCiter{}

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewContentRouter(e, store,
		WithSettings(s),
		WithLiveWiki(pages, pipeline),
		WithSourceLookup(fakeSources{"en-ddr-densho-1-1": {EncyclopediaID: "en-ddr-densho-1-1", MediaFormat: domain.MediaImage}}),
		WithCitations(citer),
	).Bind()

	return &testEnv{e: e, store: store, citer: citer}
}

func (env *testEnv) get(target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestListArticles(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/articles?page=1&size=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var res pagination.OffsetResult[dto.ArticleSummary]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(3), res.Total)
	assert.True(t, res.HasMore)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Manzanar", res.Items[0].Title)
	assert.Equal(t, "Timeline", res.Items[1].Title)
	assert.Equal(t, "/api/articles/Manzanar", res.Items[0].URL)
}

func TestGetArticle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/articles/Tule_Lake")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Tule Lake", got.Title)
	assert.Equal(t, "/Tule_Lake", got.AbsoluteURL)
	assert.Equal(t, "/api/articles/Manzanar", got.PrevPage)
	assert.Empty(t, got.NextPage)
	assert.Equal(t, []string{"/api/sources/en-denshopd-i37-00123"}, got.Sources)
	assert.Equal(t, []string{"/api/authors/Brian%20Niiya"}, got.Authors)
}

func TestGetArticle_RedirectsAuthors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/articles/Brian_Niiya")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/authors/Brian%20Niiya", rec.Header().Get(echo.HeaderLocation))
}

func TestGetArticle_NotFound(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.get("/api/articles/Nowhere").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/api/articles/Timeline").Code, "pages outside the encyclopedia are hidden")
}

func TestAuthors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/authors")
	require.Equal(t, http.StatusOK, rec.Code)
	var list pagination.OffsetResult[dto.AuthorSummary]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "niiya brian", list.Items[0].TitleSort)

	rec = env.get("/api/authors/Brian_Niiya")
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.Author
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []dto.AuthorArticle{{Title: "Tule Lake", URL: "/api/articles/Tule%20Lake"}}, got.Articles)
}

func TestGetSource(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/sources/en-denshopd-i37-00123")
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.Source
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "rtmp://streaming.densho.org/denshostream", got.RTMPStreamer)
	assert.Equal(t, "/mp4:en-denshovh-i37.mp4", got.StreamingPath)
	assert.Equal(t, "/sources/en-denshopd-i37-00123/", got.AbsoluteURL)

	rec = env.get("/api/sources/en-ddr-densho-1-1")
	require.Equal(t, http.StatusOK, rec.Code, "falls back to the metadata service")

	assert.Equal(t, http.StatusNotFound, env.get("/api/sources/missing").Code)
}

func TestCite(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/cite/page/Tule_Lake")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Brian Niiya"}, env.citer.authors)

	var got citation.Citation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Tule Lake", got.Title)
	assert.Equal(t, "Niiya, B.", got.Authors.APA)

	assert.Equal(t, http.StatusOK, env.get("/api/cite/source/en-denshopd-i37-00123").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/api/cite/source/missing").Code)
}

func TestLivePage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/wiki/Tule_Lake")
	require.Equal(t, http.StatusOK, rec.Code)
	var got transform.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Tule Lake", got.Title)
	assert.Equal(t, policy.StatusOK, got.Status)
	assert.NotContains(t, got.Body, "<h1>")

	rec = env.get("/wiki/Tule_Lake?print=true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, policy.TemplateArticlePrint, got.Template)
}

func TestLivePage_UnpublishedBlockedForPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/wiki/Draft", policy.ForwardedForHeader, "203.0.113.7")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unpublished"`)

	assert.Equal(t, http.StatusNotFound, env.get("/wiki/Nowhere").Code)
}
