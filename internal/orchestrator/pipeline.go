package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dusk-indust/briefly/internal/llm"
	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/metrics"
	"github.com/google/uuid"
)

// Compile-time interface check.
var _ Orchestrator = (*Pipeline)(nil)

// Pipeline implements Orchestrator. It runs the Coordinator, then the FanOut
// over the planned sources, then the Synthesizer exactly once.
type Pipeline struct {
	cfg         Config
	coordinator *Coordinator
	fanout      *FanOut
	synthesizer *Synthesizer
	logger      *slog.Logger
	metrics     *metrics.Metrics
	onProgress  func(ProgressEvent)
	newID       func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrDefault(l) }
}

// WithMetrics records request, fetch and synthesis metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithProgress registers a callback for step progress events. It is called
// from fetch goroutines and must be safe for concurrent use.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithRequestIDs overrides request ID generation.
func WithRequestIDs(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// NewPipeline wires a Coordinator on classifier, a FanOut over sources and a
// Synthesizer on writer. Both completers may be the same client.
func NewPipeline(cfg Config, classifier, writer llm.Completer, sources Sources, opts ...Option) *Pipeline {
	cfg.Timeouts = cfg.Timeouts.withDefaults()
	p := &Pipeline{
		cfg:    cfg,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.coordinator = NewCoordinator(classifier, p.logger, cfg.Timeouts.Classify)
	p.fanout = NewFanOut(cfg, sources, p.onProgress)
	p.fanout.setObservers(p.logger, p.metrics)
	p.synthesizer = NewSynthesizer(writer, cfg.Timeouts.Synthesize)
	return p
}

// Coordinator exposes the pipeline's classifier for callers that only need
// the routing decision.
func (p *Pipeline) Coordinator() *Coordinator {
	return p.coordinator
}

// Prepare runs one request. It never panics and never returns a bare error:
// every failure is folded into the response.
func (p *Pipeline) Prepare(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	resp.RequestID = req.RequestID
	if resp.RequestID == "" {
		resp.RequestID = p.newID()
	}
	resp.Steps = []StepRecord{}
	ctx = ContextWithRequestID(ctx, resp.RequestID)
	logger := p.logger.With("request_id", resp.RequestID)
	rejected := false

	defer func() {
		if r := recover(); r != nil {
			gerr := &GraphExecutionError{Cause: r}
			logger.ErrorContext(ctx, "orchestration panicked",
				"error", gerr,
				"transcript_len", len(req.Transcript),
				"elapsed", time.Since(start),
			)
			resp.Result = Result{}
			resp.Errors = append(resp.Errors, gerr.Error())
		}

		elapsed := time.Since(start)
		resp.DurationMS = elapsed.Milliseconds()
		outcome := requestOutcome(resp, rejected)
		p.metrics.ObserveRequest(outcome, elapsed)
		logger.InfoContext(ctx, "briefing request finished",
			"outcome", outcome,
			"duration_ms", resp.DurationMS,
			"steps", len(resp.Steps),
			"errors", len(resp.Errors),
		)
	}()

	if strings.TrimSpace(req.Transcript) == "" {
		rejected = true
		resp.Errors = []string{ErrEmptyTranscript.Error()}
		return resp
	}

	st := &State{Transcript: req.Transcript}

	p.emit(ctx, ProgressEvent{Step: StepCoordinator, Status: ProgressWorking})
	stepStart := time.Now()
	st.Classification = p.coordinator.Classify(ctx, req.Transcript)
	resp.Steps = append(resp.Steps, StepRecord{
		Name:       StepCoordinator,
		Status:     StepOK,
		DurationMS: time.Since(stepStart).Milliseconds(),
	})
	p.emit(ctx, ProgressEvent{Step: StepCoordinator, Status: ProgressComplete})

	plan := PlanFor(st.Classification)
	for _, id := range plan.Sources {
		p.metrics.ObserveClassification(string(id))
	}
	logger.DebugContext(ctx, "request classified", "plan", plan.String())

	resp.Steps = append(resp.Steps, p.fanout.Run(ctx, plan, st)...)

	p.emit(ctx, ProgressEvent{Step: StepSynthesizer, Status: ProgressWorking})
	stepStart = time.Now()
	summary, err := p.synthesizer.Synthesize(ctx, st)
	synthStep := StepRecord{
		Name:       StepSynthesizer,
		Status:     StepOK,
		DurationMS: time.Since(stepStart).Milliseconds(),
	}
	if err != nil {
		synthStep.Status = StepError
		synthStep.Error = err.Error()
		resp.Steps = append(resp.Steps, synthStep)
		resp.Errors = append(resp.Errors, err.Error())
		p.metrics.ObserveSynthesisFailure()
		p.emit(ctx, ProgressEvent{Step: StepSynthesizer, Status: ProgressFailed, Message: err.Error()})
		logger.ErrorContext(ctx, "synthesis failed", "step", StepSynthesizer, "error", err)
		return resp
	}
	resp.Steps = append(resp.Steps, synthStep)
	p.emit(ctx, ProgressEvent{Step: StepSynthesizer, Status: ProgressComplete})

	st.Summary = summary
	resp.Result = Result{Summary: st.Summary, Classification: st.Classification}
	return resp
}

func requestOutcome(resp Response, rejected bool) string {
	switch {
	case rejected:
		return metrics.OutcomeRejected
	case resp.Failed():
		return metrics.OutcomeFailed
	case resp.Degraded():
		return metrics.OutcomeDegraded
	default:
		return metrics.OutcomeOK
	}
}

// emit sends a progress event stamped with the request ID.
func (p *Pipeline) emit(ctx context.Context, ev ProgressEvent) {
	if p.onProgress == nil {
		return
	}
	ev.RequestID = RequestIDFrom(ctx)
	p.onProgress(ev)
}

type requestIDKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the briefing request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored by ContextWithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
