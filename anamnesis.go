package anamnesis

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/aretw0/anamnesis/internal/estimator"
	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/internal/runtime"
	"github.com/aretw0/anamnesis/pkg/catalog"
	"github.com/aretw0/anamnesis/pkg/domain"
)

// Engine is the high-level entry point for the library.
// It wraps the internal runtime over a single catalog and is safe for
// concurrent use: all per-session data lives in *domain.State values.
type Engine struct {
	runtime *runtime.Engine
	catalog *catalog.Catalog
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	rng     *rand.Rand
	tokens  []string
	words   bool

	estimatorSet   bool
	estimatorOff   bool
	estimatorAttr  string
	estimatorRules []domain.EstimateRule

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSeed makes question ordering reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRandSource sets the random source used to shuffle optional questions.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src)
		}
	}
}

// WithNegativeTokens overrides the negative-response vocabulary of the catalog.
func WithNegativeTokens(tokens ...string) Option {
	return func(e *Engine) {
		e.tokens = tokens
	}
}

// WithNegativeWordBoundary makes negative tokens match whole words only, so
// "normal" no longer counts as a "no". By default any answer starting with a
// token is negative.
func WithNegativeWordBoundary() Option {
	return func(e *Engine) {
		e.words = true
	}
}

// WithEstimator replaces the auxiliary estimator of the catalog.
func WithEstimator(attribute string, rules ...domain.EstimateRule) Option {
	return func(e *Engine) {
		e.estimatorSet, e.estimatorOff = true, false
		e.estimatorAttr, e.estimatorRules = attribute, rules
	}
}

// WithoutEstimator disables auxiliary estimates.
func WithoutEstimator() Option {
	return func(e *Engine) {
		e.estimatorSet, e.estimatorOff = true, true
	}
}

// New initializes an Engine over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil || cat.Bank == nil {
		return nil, fmt.Errorf("catalog with a question bank is required")
	}

	eng := &Engine{catalog: cat, Name: cat.Name}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("catalog", eng.Name)
	}

	tokens := eng.tokens
	if len(tokens) == 0 {
		tokens = cat.NegativeTokens
	}

	var est *estimator.Estimator
	switch {
	case eng.estimatorOff:
	case eng.estimatorSet:
		est = estimator.New(eng.estimatorAttr, eng.estimatorRules, tokens...)
	case cat.Estimates != nil:
		est = estimator.New(cat.Estimates.Attribute, cat.Estimates.Rules, tokens...)
	default:
		est = estimator.Default().WithTokens(tokens...)
	}
	if eng.words {
		est = est.WithWordBoundary()
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithNegativeTokens(tokens...),
		runtime.WithEstimator(est),
	}
	if eng.rng != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithRand(eng.rng))
	}
	if eng.words {
		runtimeOpts = append(runtimeOpts, runtime.WithNegativeWordBoundary())
	}

	eng.runtime = runtime.NewEngine(cat.Bank, cat.Matrix, cat.Candidates, runtimeOpts...)
	return eng, nil
}

// NewFromFile loads a YAML catalog and initializes an Engine over it.
func NewFromFile(path string, opts ...Option) (*Engine, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cat, opts...)
}

// Start creates the initial state of a session and triggers lifecycle hooks.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	return e.runtime.Start(ctx, sessionID)
}

// Current returns the question to present for the state, or nil when there is none.
func (e *Engine) Current(state *domain.State) *domain.Question {
	q, ok := e.runtime.Current(state)
	if !ok {
		return nil
	}
	return &q
}

// Submit records an answer and returns the next state.
func (e *Engine) Submit(ctx context.Context, state *domain.State, contextKey, value string) *domain.State {
	return e.runtime.Submit(ctx, state, contextKey, value)
}

// Rank returns the recommendation list for the state.
func (e *Engine) Rank(state *domain.State) []domain.Recommendation {
	return e.runtime.Rank(state)
}

// Estimate returns the auxiliary display attribute for the state, if any.
func (e *Engine) Estimate(state *domain.State) (domain.Estimate, bool) {
	return e.runtime.Estimate(state)
}

// Reset replaces the state with a fresh one for the same session.
func (e *Engine) Reset(ctx context.Context, state *domain.State) *domain.State {
	return e.runtime.Reset(ctx, state)
}

// Inspect returns the questions of the bank in declared order.
func (e *Engine) Inspect() []domain.Question {
	return e.runtime.Bank().Questions()
}

// RecalledKeys returns the sorted context keys whose answers are read again
// after the submit that recorded them: branch conditions on other questions
// and estimator signals. Programmatic BranchFuncs are opaque and not covered.
func (e *Engine) RecalledKeys() []string {
	seen := make(map[string]bool)
	for _, q := range e.Inspect() {
		for _, r := range q.Rules {
			if r.When != "" && r.When != q.Key() {
				seen[r.When] = true
			}
		}
	}
	for _, signal := range e.runtime.Estimator().Signals() {
		if signal != "" {
			seen[signal] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Catalog returns the catalog the engine was built from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
