package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/settings"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	authors     domain.Inventory
	articles    domain.Inventory
	pages       map[string]domain.Page
	links       map[string][]string
	authorsErr  error
	articlesErr error
	pageCalls   []string
}

func (s *fakeSource) Authors(context.Context) (domain.Inventory, error) {
	return s.authors, s.authorsErr
}

func (s *fakeSource) ArticlesLastMod(context.Context) (domain.Inventory, error) {
	return s.articles, s.articlesErr
}

func (s *fakeSource) Page(_ context.Context, title string) (*domain.Page, error) {
	s.pageCalls = append(s.pageCalls, title)
	p, ok := s.pages[title]
	if !ok {
		return nil, apperr.NewNotFound("page", title)
	}
	return &p, nil
}

func (s *fakeSource) WhatLinksHere(_ context.Context, title string) ([]string, error) {
	return s.links[title], nil
}

// fakeTransformer passes bodies through and attaches one source record per
// entry in records.
type fakeTransformer struct {
	records map[string][]domain.PrimarySource
}

func (f *fakeTransformer) Transform(_ context.Context, page domain.Page, _ policy.Visibility, _ ...transform.Option) (*transform.Result, error) {
	if !page.Published {
		return &transform.Result{Title: page.Title, Status: policy.StatusUnpublished}, nil
	}
	res := &transform.Result{Title: page.Title, Body: page.Body, Status: policy.StatusOK}
	for _, rec := range f.records[page.Title] {
		res.Sources = append(res.Sources, rec.EncyclopediaID)
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// recordingStore logs write order and can fail selected ids.
type recordingStore struct {
	*in_mem.InMemStorer
	ops    []string
	failOn map[string]bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{InMemStorer: in_mem.NewInMemStorer(), failOn: map[string]bool{}}
}

func (s *recordingStore) Upsert(ctx context.Context, c storage.Collection, id string, doc any) error {
	if s.failOn[id] {
		return errors.New("write refused")
	}
	s.ops = append(s.ops, "upsert "+string(c)+" "+id)
	return s.InMemStorer.Upsert(ctx, c, id, doc)
}

func (s *recordingStore) UpsertBulk(ctx context.Context, c storage.Collection, docs []storage.Keyed) error {
	for _, d := range docs {
		s.ops = append(s.ops, "upsert "+string(c)+" "+d.ID)
	}
	return s.InMemStorer.UpsertBulk(ctx, c, docs)
}

func (s *recordingStore) Delete(ctx context.Context, c storage.Collection, id string) error {
	if s.failOn[id] {
		return errors.New("delete refused")
	}
	s.ops = append(s.ops, "delete "+string(c)+" "+id)
	return s.InMemStorer.Delete(ctx, c, id)
}

func page(title string, modified time.Time, body string) domain.Page {
	return domain.Page{Title: title, Body: body, Modified: modified, Published: true, PublishedEncyc: true}
}

func articleInv(entries map[string]time.Time) domain.Inventory {
	var inv domain.Inventory
	for id, m := range entries {
		inv = append(inv, domain.InventoryEntry{ID: id, Modified: m, Kind: domain.KindArticle})
	}
	return inv
}

func seed(t *testing.T, s storage.Storer, c storage.Collection, id string, modified time.Time) {
	t.Helper()
	doc := domain.ArticleDoc{URLTitle: id, Title: id, TitleSort: domain.TitleSort(id), Modified: modified}
	require.NoError(t, s.Upsert(context.Background(), c, id, doc))
}

func TestEngine_Run_ArticlesDeletesBeforeUpserts(t *testing.T) {
	src := &fakeSource{
		articles: articleInv(map[string]time.Time{"A": t1, "B": t2}),
		pages: map[string]domain.Page{
			"A": page("A", t1, "<p>a</p>"),
			"B": page("B", t2, "<p>b</p>"),
		},
	}
	store := newRecordingStore()
	seed(t, store.InMemStorer, storage.Articles, "B", t0)
	seed(t, store.InMemStorer, storage.Articles, "C", t2)

	e := NewEngine(src, store, &fakeTransformer{})
	report, err := e.Run(context.Background(), RunOptions{Articles: true})
	require.NoError(t, err)

	assert.Equal(t, Done, report.State)
	assert.Equal(t, Done, e.State())
	assert.Nil(t, report.Authors)
	require.NotNil(t, report.Articles)
	assert.Equal(t, []string{"A", "B"}, report.Articles.Plan.Upsert)
	assert.Equal(t, []string{"C"}, report.Articles.Plan.Delete)
	assert.Equal(t, 2, report.Articles.Upserted)
	assert.Equal(t, 1, report.Articles.Deleted)
	assert.Equal(t, []string{
		"delete articles C",
		"upsert articles A",
		"upsert articles B",
	}, store.ops)

	inv, err := store.Inventory(context.Background(), storage.Articles)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, inv.IDs())
}

func TestEngine_Run_SecondRunIsNoop(t *testing.T) {
	src := &fakeSource{
		articles: articleInv(map[string]time.Time{"A": t1}),
		pages:    map[string]domain.Page{"A": page("A", t1, "<p>a</p>")},
	}
	store := in_mem.NewInMemStorer()
	e := NewEngine(src, store, &fakeTransformer{})

	_, err := e.Run(context.Background(), RunOptions{Articles: true})
	require.NoError(t, err)

	report, err := e.Run(context.Background(), RunOptions{Articles: true})
	require.NoError(t, err)
	assert.True(t, report.Articles.Plan.Empty())
	assert.Equal(t, 0, report.Articles.Upserted)
}

func TestEngine_Run_SourceInventoryFailureFailsRun(t *testing.T) {
	src := &fakeSource{articlesErr: apperr.NewUnavailable("wiki", errors.New("connection refused"))}
	store := newRecordingStore()
	seed(t, store.InMemStorer, storage.Articles, "C", t2)

	e := NewEngine(src, store, &fakeTransformer{})
	report, err := e.Run(context.Background(), RunOptions{Articles: true})
	require.Error(t, err)

	assert.Equal(t, Failed, report.State)
	assert.Equal(t, Failed, e.State())
	assert.Empty(t, store.ops, "nothing may be deleted when the source inventory is unknown")
}

func TestEngine_Run_RecordFailureIsReported(t *testing.T) {
	src := &fakeSource{
		articles: articleInv(map[string]time.Time{"A": t1, "B": t1}),
		pages: map[string]domain.Page{
			"A": page("A", t1, "<p>a</p>"),
			"B": page("B", t1, "<p>b</p>"),
		},
	}
	store := newRecordingStore()
	store.failOn["A"] = true

	report, err := NewEngine(src, store, &fakeTransformer{}).Run(context.Background(), RunOptions{Articles: true})
	require.NoError(t, err)

	assert.Equal(t, Done, report.State)
	assert.Equal(t, 1, report.Articles.Upserted)
	require.Len(t, report.Articles.Failures, 1)
	assert.Equal(t, "A", report.Articles.Failures[0].ID)
	assert.Equal(t, "upsert", report.Articles.Failures[0].Op)
	assert.Equal(t, 1, report.FailedCount())
}

func TestEngine_Run_ReportOnlyWritesNothing(t *testing.T) {
	src := &fakeSource{
		articles: articleInv(map[string]time.Time{"A": t1}),
		pages:    map[string]domain.Page{"A": page("A", t1, "<p>a</p>")},
	}
	store := newRecordingStore()
	seed(t, store.InMemStorer, storage.Articles, "C", t2)

	report, err := NewEngine(src, store, &fakeTransformer{}).Run(context.Background(), RunOptions{Articles: true, ReportOnly: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, report.Articles.Plan.Upsert)
	assert.Equal(t, []string{"C"}, report.Articles.Plan.Delete)
	assert.Empty(t, store.ops)
	assert.Empty(t, src.pageCalls)
}

func TestEngine_Run_DryRunFetchesButWritesNothing(t *testing.T) {
	src := &fakeSource{
		articles: articleInv(map[string]time.Time{"A": t1}),
		pages:    map[string]domain.Page{"A": page("A", t1, "<p>a</p>")},
	}
	store := newRecordingStore()
	seed(t, store.InMemStorer, storage.Articles, "C", t2)

	report, err := NewEngine(src, store, &fakeTransformer{}).Run(context.Background(), RunOptions{Articles: true, DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, []string{"A"}, src.pageCalls)
	assert.Empty(t, store.ops)
	assert.Equal(t, 0, report.Articles.Upserted)
	assert.Equal(t, 0, report.Articles.Deleted)
}

func TestEngine_Run_SourcesSavedBeforeArticle(t *testing.T) {
	body := `<p>By <a href="/Brian_Niiya">Brian Niiya</a> and <a href="/Tule_Lake">Tule Lake</a></p>`
	src := &fakeSource{
		authors: domain.Inventory{{ID: "Brian Niiya", Modified: t1, Kind: domain.KindAuthor}},
		articles: articleInv(map[string]time.Time{
			"Manzanar":  t1,
			"Tule Lake": t1,
		}),
		pages: map[string]domain.Page{
			"Brian Niiya": page("Brian Niiya", t1, "<p>bio</p>"),
			"Manzanar":    page("Manzanar", t1, body),
			"Tule Lake":   page("Tule Lake", t1, "<p>t</p>"),
		},
		links: map[string][]string{"Brian Niiya": {"Tule Lake", "Manzanar"}},
	}
	tr := &fakeTransformer{records: map[string][]domain.PrimarySource{
		"Manzanar": {
			{EncyclopediaID: "en-denshopd-i37-00123", MediaFormat: domain.MediaImage},
			{EncyclopediaID: "en-denshopd-i37-00123", MediaFormat: domain.MediaImage},
		},
	}}
	store := newRecordingStore()

	report, err := NewEngine(src, store, tr).Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.NotNil(t, report.Authors)
	require.NotNil(t, report.Articles)

	assert.Equal(t, []string{
		"upsert authors Brian Niiya",
		"upsert sources en-denshopd-i37-00123",
		"upsert articles Manzanar",
		"upsert articles Tule Lake",
	}, store.ops)

	var author domain.AuthorDoc
	require.NoError(t, store.Get(context.Background(), storage.Authors, "Brian Niiya", &author))
	assert.Equal(t, []string{"Manzanar", "Tule Lake"}, author.Articles)
	assert.Equal(t, "niiya brian", author.TitleSort)

	var art domain.ArticleDoc
	require.NoError(t, store.Get(context.Background(), storage.Articles, "Manzanar", &art))
	assert.Equal(t, []string{"Brian Niiya"}, art.Authors)
	assert.Equal(t, []string{"en-denshopd-i37-00123", "en-denshopd-i37-00123"}, art.SourceIDs)
	assert.Equal(t, "", art.PrevPage)
	assert.Equal(t, "Tule Lake", art.NextPage)
}

func TestEngine_Run_NotPublishableIsSkipped(t *testing.T) {
	draft := page("Draft", t1, "<p>d</p>")
	draft.Published = false
	src := &fakeSource{
		articles: articleInv(map[string]time.Time{"Draft": t1}),
		pages:    map[string]domain.Page{"Draft": draft},
	}
	store := newRecordingStore()

	report, err := NewEngine(src, store, &fakeTransformer{}).Run(context.Background(), RunOptions{Articles: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Draft"}, report.Articles.NotPublishable)
	assert.Equal(t, 0, report.Articles.Upserted)
	assert.Empty(t, report.Articles.Failures)
	assert.Empty(t, store.ops)
}

func TestEngine_Run_AuthorBodyNotGatedByPublication(t *testing.T) {
	author := page("Brian Niiya", t1, `<h1>Brian Niiya</h1><p>Historian.</p>`)
	author.Published, author.PublishedEncyc = false, false
	author.Categories = []string{"Authors"}
	src := &fakeSource{
		authors: domain.Inventory{{ID: "Brian Niiya", Modified: t1, Kind: domain.KindAuthor}},
		pages:   map[string]domain.Page{"Brian Niiya": author},
	}
	pipeline := transform.New(settings.Default(), policy.New(false), nil, nil)
	store := in_mem.NewInMemStorer()

	report, err := NewEngine(src, store, pipeline).Run(context.Background(), RunOptions{Authors: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Authors.Upserted)
	assert.Empty(t, report.Authors.NotPublishable)

	var doc domain.AuthorDoc
	require.NoError(t, store.Get(context.Background(), storage.Authors, "Brian Niiya", &doc))
	assert.Contains(t, doc.Body, "Historian.")
}

func TestEngine_Run_BlockedAuthorIsNotPublishable(t *testing.T) {
	author := page("Brian Niiya", t1, "<p>bio</p>")
	author.Published = false
	src := &fakeSource{
		authors: domain.Inventory{{ID: "Brian Niiya", Modified: t1, Kind: domain.KindAuthor}},
		pages:   map[string]domain.Page{"Brian Niiya": author},
	}
	store := newRecordingStore()

	report, err := NewEngine(src, store, &fakeTransformer{}).Run(context.Background(), RunOptions{Authors: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Brian Niiya"}, report.Authors.NotPublishable)
	assert.Equal(t, 0, report.Authors.Upserted)
	assert.Empty(t, store.ops)
}

func TestArticleRun_Neighbours(t *testing.T) {
	ar := &articleRun{}
	ar.prepare(articleInv(map[string]time.Time{
		"The Zoo": t1, "Amache": t1, "Manzanar": t1,
	}), nil)

	prev, next := ar.neighbours("Manzanar")
	assert.Equal(t, "Amache", prev)
	assert.Equal(t, "The Zoo", next)

	prev, next = ar.neighbours("Amache")
	assert.Equal(t, "", prev)
	assert.Equal(t, "Manzanar", next)

	prev, next = ar.neighbours("missing")
	assert.Empty(t, prev)
	assert.Empty(t, next)
}
