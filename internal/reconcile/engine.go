package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/google/uuid"
)

type State string

const (
	Idle           State = "idle"
	FetchingSource State = "fetching_source"
	FetchingIndex  State = "fetching_index"
	Diffing        State = "diffing"
	Applying       State = "applying"
	Done           State = "done"
	Failed         State = "failed"
)

var ErrRunning = errors.New("a reconciliation run is already in progress")

// Source is the authoritative side of a run.
type Source interface {
	Authors(ctx context.Context) (domain.Inventory, error)
	ArticlesLastMod(ctx context.Context) (domain.Inventory, error)
	Page(ctx context.Context, title string) (*domain.Page, error)
	WhatLinksHere(ctx context.Context, title string) ([]string, error)
}

type Transformer interface {
	Transform(ctx context.Context, page domain.Page, vis policy.Visibility, opts ...transform.Option) (*transform.Result, error)
}

type RunOptions struct {
	Authors  bool
	Articles bool
	// DryRun fetches and transforms every planned record but writes nothing.
	DryRun bool
	// ReportOnly stops after diffing.
	ReportOnly bool
}

// Failure is one record that could not be applied.
type Failure struct {
	ID    string `json:"id"`
	Op    string `json:"op"`
	Error string `json:"error"`
}

type KindReport struct {
	Kind           domain.InventoryKind `json:"kind"`
	SourceCount    int                  `json:"source_count"`
	IndexCount     int                  `json:"index_count"`
	Plan           Plan                 `json:"plan"`
	Upserted       int                  `json:"upserted"`
	Deleted        int                  `json:"deleted"`
	NotPublishable []string             `json:"not_publishable,omitempty"`
	Failures       []Failure            `json:"failures,omitempty"`
}

type Report struct {
	RunID    uuid.UUID   `json:"run_id"`
	State    State       `json:"state"`
	DryRun   bool        `json:"dry_run"`
	Started  time.Time   `json:"started"`
	Finished time.Time   `json:"finished"`
	Authors  *KindReport `json:"authors,omitempty"`
	Articles *KindReport `json:"articles,omitempty"`
}

// FailedCount reports the number of records that could not be applied.
func (r *Report) FailedCount() int {
	n := 0
	for _, k := range []*KindReport{r.Authors, r.Articles} {
		if k != nil {
			n += len(k.Failures)
		}
	}
	return n
}

type Engine struct {
	source    Source
	store     storage.DocumentStore
	transform Transformer

	mu      sync.Mutex
	state   State
	running bool
}

func NewEngine(source Source, store storage.DocumentStore, transformer Transformer) *Engine {
	return &Engine{source: source, store: store, transform: transformer, state: Idle}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(log *slog.Logger, s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	log.Debug("Reconciliation state changed", "state", s)
}

// Run reconciles authors, then articles. Failing to read either inventory
// fails the run; failures on single records are reported and skipped.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrRunning
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if !opts.Authors && !opts.Articles {
		opts.Authors, opts.Articles = true, true
	}

	report := &Report{RunID: uuid.New(), DryRun: opts.DryRun, Started: time.Now().UTC()}
	log := slog.With("run_id", report.RunID.String())
	log.Info("Reconciliation started", "authors", opts.Authors, "articles", opts.Articles, "dry_run", opts.DryRun, "report_only", opts.ReportOnly)

	finish := func(s State, err error) (*Report, error) {
		e.setState(log, s)
		report.State = s
		report.Finished = time.Now().UTC()
		if err != nil {
			log.Error("Reconciliation failed", "error", err)
			return report, err
		}
		log.Info("Reconciliation finished", "failed_records", report.FailedCount(), "took", report.Finished.Sub(report.Started))
		return report, nil
	}

	if opts.Authors {
		kr, err := e.reconcile(ctx, log, storage.Authors, e.source.Authors, opts, e.applyAuthor)
		report.Authors = kr
		if err != nil {
			return finish(Failed, fmt.Errorf("authors: %w", err))
		}
	}

	if opts.Articles {
		ar := &articleRun{}
		kr, err := e.reconcile(ctx, log, storage.Articles, ar.inventory(e.source), opts, ar.apply(e))
		report.Articles = kr
		if err != nil {
			return finish(Failed, fmt.Errorf("articles: %w", err))
		}
		if len(kr.NotPublishable) > 0 {
			log.Warn("Could not post these", "titles", kr.NotPublishable)
		}
	}

	return finish(Done, nil)
}

type applyFunc func(ctx context.Context, log *slog.Logger, id string, opts RunOptions, kr *KindReport) error

func (e *Engine) reconcile(
	ctx context.Context,
	log *slog.Logger,
	c storage.Collection,
	fetchSource func(ctx context.Context) (domain.Inventory, error),
	opts RunOptions,
	apply applyFunc,
) (*KindReport, error) {
	log = log.With("collection", c)
	kr := &KindReport{Kind: c.Kind()}

	e.setState(log, FetchingSource)
	source, err := fetchSource(ctx)
	if err != nil {
		return kr, fmt.Errorf("failed to fetch source inventory: %w", err)
	}

	e.setState(log, FetchingIndex)
	index, err := e.store.Inventory(ctx, c)
	if err != nil {
		return kr, fmt.Errorf("failed to fetch index inventory: %w", err)
	}

	e.setState(log, Diffing)
	kr.SourceCount, kr.IndexCount = len(source), len(index)
	kr.Plan = Diff(source, index)
	log.Info("Plan computed",
		"source", kr.SourceCount,
		"index", kr.IndexCount,
		"to_upsert", len(kr.Plan.Upsert),
		"to_delete", len(kr.Plan.Delete))

	if opts.ReportOnly {
		return kr, nil
	}

	e.setState(log, Applying)
	for n, id := range kr.Plan.Delete {
		if err := ctx.Err(); err != nil {
			return kr, err
		}
		log.Debug("Deleting", "n", n+1, "of", len(kr.Plan.Delete), "id", id)
		if opts.DryRun {
			continue
		}
		if err := e.store.Delete(ctx, c, id); err != nil {
			log.Error("Delete failed", "id", id, "error", err)
			kr.Failures = append(kr.Failures, Failure{ID: id, Op: "delete", Error: err.Error()})
			continue
		}
		kr.Deleted++
	}

	for n, id := range kr.Plan.Upsert {
		if err := ctx.Err(); err != nil {
			return kr, err
		}
		log.Debug("Upserting", "n", n+1, "of", len(kr.Plan.Upsert), "id", id)
		if err := apply(ctx, log, id, opts, kr); err != nil {
			log.Error("Upsert failed", "id", id, "error", err)
			kr.Failures = append(kr.Failures, Failure{ID: id, Op: "upsert", Error: err.Error()})
		}
	}
	return kr, nil
}

func (e *Engine) applyAuthor(ctx context.Context, log *slog.Logger, title string, opts RunOptions, kr *KindReport) error {
	page, err := e.source.Page(ctx, title)
	if err != nil {
		return err
	}
	res, err := e.transform.Transform(ctx, *page, policy.Internal, transform.Ungated())
	if err != nil {
		return err
	}
	if res.Status == policy.StatusUnpublished {
		kr.NotPublishable = append(kr.NotPublishable, title)
		return nil
	}

	linking, err := e.source.WhatLinksHere(ctx, page.Title)
	if err != nil {
		log.Warn("Could not list author articles", "author", title, "error", err)
	}
	sort.Strings(linking)

	doc := domain.AuthorDoc{
		URLTitle:  title,
		Title:     res.Title,
		TitleSort: domain.AuthorTitleSort(res.Title),
		Body:      res.Body,
		Articles:  linking,
		Modified:  page.Modified,
		IndexedAt: time.Now().UTC(),
	}
	if opts.DryRun {
		return nil
	}
	if err := e.store.Upsert(ctx, storage.Authors, title, doc); err != nil {
		return err
	}
	kr.Upserted++
	return nil
}
