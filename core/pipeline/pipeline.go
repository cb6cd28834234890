package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opencampus/coursegen/core/course"
	"github.com/opencampus/coursegen/core/llm"
	"github.com/opencampus/coursegen/core/normalize"
	"github.com/opencampus/coursegen/internal/jsonschema"
	"github.com/opencampus/coursegen/providers/ai"
	"github.com/opencampus/coursegen/providers/observability"
	"github.com/opencampus/coursegen/providers/retriever"
	"github.com/opencampus/coursegen/providers/store"
)

// ErrNilClient is returned by [New] when no llm.Client is supplied.
var ErrNilClient = errors.New("pipeline: llm client must not be nil")

// ErrMissingTopic marks a run whose input carried no topic.
var ErrMissingTopic = errors.New("pipeline: topic must not be empty")

const (
	// DefaultConcurrency bounds how many sub-topics are generated in
	// parallel. Zero disables the bound.
	DefaultConcurrency = 4

	// DefaultContextBudget is the maximum number of context characters
	// included in the TOC prompt.
	DefaultContextBudget = 10000

	// contextTopK is how many chunks the context stage retrieves for the
	// course topic.
	contextTopK = 5

	// chapterTopK is how many chunks are retrieved per chapter during
	// content generation.
	chapterTopK = 3
)

// Input describes one generation request. ContextChunks is optional: when
// supplied, the context stage uses it as-is instead of querying the retriever.
// History and Extra allow re-entering the pipeline with state from an earlier
// run, e.g. to regenerate content against an already-generated TOC.
type Input struct {
	Topic         string
	ContextChunks []retriever.Chunk
	History       []ai.Message
	Extra         map[string]any
}

// Pipeline runs the three-stage course generation flow: context retrieval,
// table-of-contents generation, and per-chapter content generation. A
// Pipeline is safe for concurrent use; all fields are set at construction.
type Pipeline struct {
	client        *llm.Client
	retriever     retriever.Provider
	store         store.Provider
	obs           observability.Provider
	normalizer    *normalize.Normalizer
	concurrency   int
	contextBudget int

	tocSchema     *jsonschema.Schema
	chapterSchema *jsonschema.Schema
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithRetriever attaches a context retriever. Without one, runs proceed with
// whatever chunks the input carries.
func WithRetriever(r retriever.Provider) Option {
	return func(p *Pipeline) {
		p.retriever = r
	}
}

// WithStore attaches a cache used to memoize the TOC and generated chapters
// across runs. Without one, every run regenerates everything.
func WithStore(s store.Provider) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithObserver attaches an observability provider for spans, metrics and
// structured logs.
func WithObserver(obs observability.Provider) Option {
	return func(p *Pipeline) {
		p.obs = obs
	}
}

// WithConcurrency bounds parallel sub-topic generation. Zero means unbounded;
// negative values are rejected by New.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// WithContextBudget caps the context characters included in the TOC prompt.
func WithContextBudget(chars int) Option {
	return func(p *Pipeline) {
		p.contextBudget = chars
	}
}

// New creates a Pipeline around client. The response schemas are generated
// once here so schema reflection errors surface at construction, not mid-run.
func New(client *llm.Client, opts ...Option) (*Pipeline, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	p := &Pipeline{
		client:        client,
		concurrency:   DefaultConcurrency,
		contextBudget: DefaultContextBudget,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.concurrency < 0 {
		return nil, fmt.Errorf("pipeline: concurrency must be >= 0, got %d", p.concurrency)
	}
	if p.contextBudget <= 0 {
		p.contextBudget = DefaultContextBudget
	}

	p.normalizer = normalize.New(normalize.WithObserver(p.obs))

	var err error
	if p.tocSchema, err = jsonschema.GenerateJSONSchema[course.TocDocument](); err != nil {
		return nil, fmt.Errorf("pipeline: toc schema: %w", err)
	}
	if p.chapterSchema, err = jsonschema.GenerateJSONSchema[course.ChapterLessons](); err != nil {
		return nil, fmt.Errorf("pipeline: chapter schema: %w", err)
	}

	return p, nil
}

// stage is one step of the run. Each stage receives the previous state and
// returns a successor; it must not mutate its input.
type stage struct {
	name string
	run  func(ctx context.Context, state *State) *State
}

// Run executes the full pipeline for input. It never panics and never returns
// nil: every failure mode, including a stage panic, ends up as a state with a
// non-empty Error.
func (p *Pipeline) Run(ctx context.Context, input Input) (final *State) {
	state := &State{
		RunID:         uuid.New(),
		Topic:         strings.TrimSpace(input.Topic),
		ContextChunks: input.ContextChunks,
		History:       input.History,
		Extra:         input.Extra,
	}
	if state.Topic == "" {
		state.Error = ErrMissingTopic.Error()
		return state
	}

	defer func() {
		if r := recover(); r != nil {
			state.Error = fmt.Sprintf("pipeline panicked: %v", r)
			final = state
		}
	}()

	ctx, span := p.startSpan(ctx, "pipeline.run",
		observability.String(observability.AttrRunID, state.RunID.String()),
		observability.String(observability.AttrTopic, state.Topic))
	defer p.endSpan(span, state)

	stages := []stage{
		{name: "context", run: p.stageContext},
		{name: "toc", run: p.stageToc},
		{name: "content", run: p.stageContent},
	}

	for _, s := range stages {
		if state.Failed() {
			break
		}
		state = p.runStage(ctx, s, state)
	}

	return state
}

// runStage executes one stage under a span and a panic guard. A panicking
// stage fails the run but never the process.
func (p *Pipeline) runStage(ctx context.Context, s stage, state *State) (next *State) {
	ctx, span := p.startSpan(ctx, "pipeline.stage."+s.name,
		observability.String(observability.AttrStage, s.name))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			next = state.clone()
			next.Error = fmt.Sprintf("stage %s panicked: %v", s.name, r)
		}
		if p.obs != nil {
			p.obs.Histogram(observability.MetricStageDuration).Record(ctx, time.Since(start).Seconds(),
				observability.String(observability.AttrStage, s.name))
		}
		p.endSpan(span, next)
	}()

	return s.run(ctx, state)
}

/*
	##### OBSERVABILITY HELPERS #####

	A nil observer is valid everywhere, so every access goes through these.
*/

func (p *Pipeline) startSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	if p.obs == nil {
		return ctx, nil
	}
	return p.obs.StartSpan(ctx, name, attrs...)
}

func (p *Pipeline) endSpan(span observability.Span, state *State) {
	if span == nil {
		return
	}
	if state != nil && state.Failed() {
		span.SetStatus(observability.StatusError, state.Error)
	} else {
		span.SetStatus(observability.StatusOK, "")
	}
	span.End()
}

func (p *Pipeline) count(ctx context.Context, metric string, attrs ...observability.Attribute) {
	if p.obs != nil {
		p.obs.Counter(metric).Add(ctx, 1, attrs...)
	}
}

func (p *Pipeline) info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if p.obs != nil {
		p.obs.Info(ctx, msg, attrs...)
	}
}

func (p *Pipeline) warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if p.obs != nil {
		p.obs.Warn(ctx, msg, attrs...)
	}
}
