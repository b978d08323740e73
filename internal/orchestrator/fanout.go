package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/metrics"
	"github.com/dusk-indust/briefly/internal/source"
	"golang.org/x/sync/errgroup"
)

// Sources bundles the fetchers. A nil fetcher fails its step when planned.
type Sources struct {
	CodeReview source.CodeReviewFetcher
	Issues     source.IssueFetcher
	Notes      source.NotesFetcher
}

// FanOut runs the planned fetches in parallel and writes each result into
// its own State slot.
type FanOut struct {
	cfg        Config
	sources    Sources
	onProgress func(ProgressEvent)
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewFanOut creates a FanOut. onProgress is called from the fetch
// goroutines; it may be nil.
func NewFanOut(cfg Config, sources Sources, onProgress func(ProgressEvent)) *FanOut {
	cfg.Timeouts = cfg.Timeouts.withDefaults()
	return &FanOut{
		cfg:        cfg,
		sources:    sources,
		onProgress: onProgress,
		logger:     slog.Default(),
	}
}

// Run dispatches one goroutine per planned source and waits for all of them.
// It uses a plain errgroup.Group rather than WithContext: a failed fetch
// must not cancel its siblings. The returned records cover every source in
// fixed order; unplanned sources are reported as skipped.
func (f *FanOut) Run(ctx context.Context, plan Plan, st *State) []StepRecord {
	ids := source.All()
	steps := make([]StepRecord, len(ids))
	var g errgroup.Group

	for i, id := range ids {
		if !plan.Has(id) {
			steps[i] = StepRecord{Name: string(id), Status: StepSkipped}
			f.emit(ctx, ProgressEvent{Step: string(id), Status: ProgressSkipped})
			continue
		}

		f.emit(ctx, ProgressEvent{Step: string(id), Status: ProgressPending})
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					ferr := &FetchError{Source: id, Err: fmt.Errorf("panic: %v", r)}
					f.logger.ErrorContext(ctx, "fetch goroutine panicked", "source", string(id), "error", ferr)
					steps[i] = StepRecord{Name: string(id), Status: StepError, Error: ferr.Error()}
				}
			}()
			steps[i] = f.fetch(ctx, id, st)
			return nil
		})
	}

	_ = g.Wait()
	return steps
}

func (f *FanOut) fetch(ctx context.Context, id source.ID, st *State) StepRecord {
	start := time.Now()
	f.emit(ctx, ProgressEvent{Step: string(id), Status: ProgressWorking})

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeouts.Fetch)
	defer cancel()

	rec := StepRecord{Name: string(id), Status: StepOK}
	if err := f.fetchInto(ctx, id, st); err != nil {
		ferr := &FetchError{Source: id, Err: err}
		rec.Status = StepError
		rec.Error = ferr.Error()
		f.logger.WarnContext(ctx, "fetch failed, continuing without source", "source", string(id), "error", err)
		f.emit(ctx, ProgressEvent{Step: string(id), Status: ProgressFailed, Message: err.Error()})
	} else {
		f.emit(ctx, ProgressEvent{Step: string(id), Status: ProgressComplete})
	}
	rec.DurationMS = time.Since(start).Milliseconds()
	f.metrics.ObserveFetch(string(id), string(rec.Status))
	return rec
}

// fetchInto assigns the slot only when the fetch finished inside the
// deadline, so a late result can never race with the digest.
func (f *FanOut) fetchInto(ctx context.Context, id source.ID, st *State) error {
	switch id {
	case source.CodeReview:
		if f.sources.CodeReview == nil {
			return errNoFetcher
		}
		res, err := await(ctx, func(ctx context.Context) (*source.CodeReviewResult, error) {
			return f.sources.CodeReview.Fetch(ctx, f.cfg.CodeReview)
		})
		if err != nil {
			return err
		}
		st.CodeReview = res
	case source.Issues:
		if f.sources.Issues == nil {
			return errNoFetcher
		}
		res, err := await(ctx, func(ctx context.Context) (*source.IssueResult, error) {
			return f.sources.Issues.Fetch(ctx, f.cfg.Issues)
		})
		if err != nil {
			return err
		}
		st.Issues = res
	case source.Notes:
		if f.sources.Notes == nil {
			return errNoFetcher
		}
		res, err := await(ctx, func(ctx context.Context) (*source.NotesResult, error) {
			return f.sources.Notes.Fetch(ctx, f.cfg.Notes)
		})
		if err != nil {
			return err
		}
		st.Notes = res
	default:
		return fmt.Errorf("unknown source %q", id)
	}
	return nil
}

// await runs fn in its own goroutine and returns when it finishes or ctx is
// done, whichever comes first. A panic in fn is returned as an error.
func await[R any](ctx context.Context, fn func(context.Context) (*R, error)) (*R, error) {
	type outcome struct {
		res *R
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		res, err := fn(ctx)
		ch <- outcome{res: res, err: err}
	}()

	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// emit sends a progress event, stamped with the request ID carried by ctx,
// if a callback is registered.
func (f *FanOut) emit(ctx context.Context, ev ProgressEvent) {
	if f.onProgress == nil {
		return
	}
	if ev.RequestID == "" {
		ev.RequestID = RequestIDFrom(ctx)
	}
	f.onProgress(ev)
}

func (f *FanOut) setObservers(logger *slog.Logger, m *metrics.Metrics) {
	f.logger = logging.OrDefault(logger)
	f.metrics = m
}
