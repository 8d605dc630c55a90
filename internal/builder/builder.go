package builder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/foldcms/foldcms-go/internal/cms"
	"github.com/foldcms/foldcms-go/internal/codec"
	"github.com/foldcms/foldcms-go/internal/metrics"
	"github.com/foldcms/foldcms-go/internal/store"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// Stage names a phase of the per-record pipeline.
type Stage string

const (
	StageLoad      Stage = "load"
	StageTransform Stage = "transform"
	StageValidate  Stage = "validate"
	StageStore     Stage = "store"
)

// StageError tags a pipeline failure with the collection, the stage it
// happened in, and the record id when one is known.
type StageError struct {
	Collection string
	Stage      Stage
	RecordID   string
	Err        error
}

func (e *StageError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("%s: %s stage failed for record %q: %v", e.Collection, e.Stage, e.RecordID, e.Err)
	}
	return fmt.Sprintf("%s: %s stage failed: %v", e.Collection, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Config contains configuration for a build.
type Config struct {
	// Concurrency bounds how many collections build in parallel. Defaults
	// to 1: collections run sequentially unless opted in.
	Concurrency int

	// Incremental skips the store write when the record's content hash
	// matches what is already stored under its id.
	Incremental bool

	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// CollectionStats counts per-record outcomes for one collection.
type CollectionStats struct {
	Loaded   int
	Stored   int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Statistics summarizes a completed build.
type Statistics struct {
	Collections   map[string]*CollectionStats
	Duration      time.Duration
	ErrorMessages []string
}

// Builder runs collection pipelines against a content store.
type Builder struct {
	store    store.Store
	workers  int
	logger   *slog.Logger
	recorder metrics.Recorder

	incremental bool

	mu    sync.Mutex
	stats *Statistics
}

// New creates a Builder. A nil config uses the defaults: sequential
// collections, full rebuild, slog default logger, no metrics.
func New(st store.Store, config *Config) *Builder {
	if config == nil {
		config = &Config{}
	}
	workers := config.Concurrency
	if workers <= 0 {
		workers = 1
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if config.Recorder != nil {
		recorder = config.Recorder
	}
	return &Builder{
		store:       st,
		workers:     workers,
		logger:      logger,
		recorder:    recorder,
		incremental: config.Incremental,
	}
}

// Build runs every collection's pipeline: load, transform, validate, store.
// Records stream through one at a time, so memory stays bounded by record
// size rather than collection size. The first stage failure aborts the build
// unless the collection opted into ContinueOnError, in which case failed
// records are counted and reported in the returned statistics.
func (b *Builder) Build(ctx context.Context, collections map[string]*cms.Collection) (*Statistics, error) {
	start := time.Now()
	b.stats = &Statistics{
		Collections:   make(map[string]*CollectionStats, len(collections)),
		ErrorMessages: make([]string, 0),
	}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, name := range names {
		name, col := name, collections[name]
		g.Go(func() error {
			return b.buildCollection(gctx, name, col)
		})
	}

	if err := g.Wait(); err != nil {
		b.recorder.IncBuildOutcome("failed")
		return nil, err
	}

	b.stats.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(b.stats.Duration)
	b.recorder.IncBuildOutcome("success")

	total := 0
	for _, cs := range b.stats.Collections {
		total += cs.Stored
	}
	b.logger.Info("build complete",
		"collections", len(collections),
		"records_stored", total,
		"duration", b.stats.Duration)

	return b.stats, nil
}

func (b *Builder) buildCollection(ctx context.Context, name string, col *cms.Collection) error {
	if col == nil {
		return &StageError{Collection: name, Stage: StageLoad, Err: fmt.Errorf("collection is nil")}
	}
	if col.Loader == nil {
		return &StageError{Collection: name, Stage: StageLoad, Err: fmt.Errorf("collection has no loader")}
	}

	start := time.Now()
	cs := &CollectionStats{}
	b.mu.Lock()
	b.stats.Collections[name] = cs
	b.mu.Unlock()

	cur, err := col.Loader.Load(ctx)
	if err != nil {
		return &StageError{Collection: name, Stage: StageLoad, Err: err}
	}
	defer cur.Close()

	for cur.Next() {
		cs.Loaded++
		if err := b.buildRecord(ctx, name, col, cur.Record()); err != nil {
			cs.Failed++
			b.recorder.IncRecordResult(name, metrics.ResultFailed)
			if !col.ContinueOnError {
				return err
			}
			b.recordError(err)
			b.logger.Warn("record failed, continuing", "collection", name, "error", err)
			continue
		}
	}
	if err := cur.Err(); err != nil {
		return &StageError{Collection: name, Stage: StageLoad, Err: err}
	}

	cs.Duration = time.Since(start)
	b.recorder.ObserveCollectionDuration(name, cs.Duration)
	b.logger.Debug("collection built",
		"collection", name,
		"loaded", cs.Loaded,
		"stored", cs.Stored,
		"skipped", cs.Skipped,
		"failed", cs.Failed,
		"duration", cs.Duration)
	return nil
}

// buildRecord runs one record through transform, validate, and store. The
// skipped/stored counters are only touched on success paths, so a failed
// record contributes exactly one Failed count upstream.
func (b *Builder) buildRecord(ctx context.Context, name string, col *cms.Collection, raw types.Record) error {
	if issues := col.LoadingSchema.Validate(raw); issues != nil {
		return &StageError{Collection: name, Stage: StageLoad, RecordID: bestEffortID(raw), Err: issues}
	}

	rec := raw
	if col.Transform != nil {
		transformed, err := col.Transform(ctx, raw)
		if err != nil {
			return &StageError{
				Collection: name,
				Stage:      StageTransform,
				RecordID:   bestEffortID(raw),
				Err:        &cms.TransformationError{Message: "transform callback", Err: err},
			}
		}
		rec = transformed
	}

	id, err := rec.ID()
	if err != nil {
		return &StageError{Collection: name, Stage: StageValidate, Err: err}
	}

	if issues := col.StoredSchema().Validate(rec); issues != nil {
		return &StageError{Collection: name, Stage: StageValidate, RecordID: id, Err: issues}
	}
	if col.Validate != nil {
		if err := col.Validate(rec); err != nil {
			return &StageError{Collection: name, Stage: StageValidate, RecordID: id, Err: err}
		}
	}

	if b.incremental {
		skip, err := b.unchanged(ctx, name, id, rec)
		if err != nil {
			return &StageError{Collection: name, Stage: StageStore, RecordID: id, Err: err}
		}
		if skip {
			b.bumpSkipped(name)
			b.recorder.IncRecordResult(name, metrics.ResultSkipped)
			return nil
		}
	}

	if err := b.store.Insert(ctx, name, id, rec); err != nil {
		return &StageError{Collection: name, Stage: StageStore, RecordID: id, Err: err}
	}
	b.bumpStored(name)
	b.recorder.IncRecordResult(name, metrics.ResultStored)
	return nil
}

// unchanged reports whether the stored hash matches the record's content.
func (b *Builder) unchanged(ctx context.Context, collection, id string, rec types.Record) (bool, error) {
	stored, err := b.store.GetHash(ctx, collection, id)
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	hash, err := codec.Hash(rec)
	if err != nil {
		return false, err
	}
	return stored == hash, nil
}

func (b *Builder) bumpStored(name string) {
	b.mu.Lock()
	b.stats.Collections[name].Stored++
	b.mu.Unlock()
}

func (b *Builder) bumpSkipped(name string) {
	b.mu.Lock()
	b.stats.Collections[name].Skipped++
	b.mu.Unlock()
}

func (b *Builder) recordError(err error) {
	b.mu.Lock()
	b.stats.ErrorMessages = append(b.stats.ErrorMessages, err.Error())
	b.mu.Unlock()
}

// bestEffortID extracts the record id for error reporting without failing
// when the record has none.
func bestEffortID(rec types.Record) string {
	id, err := rec.ID()
	if err != nil {
		return ""
	}
	return id
}
