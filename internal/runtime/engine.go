package runtime

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/anamnesis/internal/estimator"
	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/internal/ranking"
	"github.com/aretw0/anamnesis/internal/scoring"
	"github.com/aretw0/anamnesis/internal/sequencer"
	"github.com/aretw0/anamnesis/pkg/domain"
)

// Engine is the core questionnaire runner.
// It holds only static inputs (bank, matrix, catalog); every session lives in
// an explicit *domain.State threaded through its methods.
type Engine struct {
	bank       *domain.Bank
	matrix     domain.Matrix
	candidates []domain.Candidate
	scorer     *scoring.Scorer
	estimator  *estimator.Estimator
	tokens     []string
	wordMatch  bool

	rngMu sync.Mutex
	rng   *rand.Rand

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRand sets the random source used to shuffle optional questions.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithNegativeTokens overrides the negative-response tokens.
func WithNegativeTokens(tokens ...string) EngineOption {
	return func(e *Engine) {
		e.tokens = tokens
	}
}

// WithNegativeWordBoundary makes negative tokens match whole words only.
func WithNegativeWordBoundary() EngineOption {
	return func(e *Engine) {
		e.wordMatch = true
	}
}

// WithEstimator sets the auxiliary estimator. A nil estimator disables estimates.
func WithEstimator(est *estimator.Estimator) EngineOption {
	return func(e *Engine) {
		e.estimator = est
	}
}

// WithClock overrides the time source used for state timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine over the given static inputs.
func NewEngine(bank *domain.Bank, matrix domain.Matrix, candidates []domain.Candidate, opts ...EngineOption) *Engine {
	e := &Engine{
		bank:       bank,
		matrix:     matrix,
		candidates: candidates,
		estimator:  estimator.Default(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:     logging.NewNop(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scorer = scoring.New(matrix, e.tokens...)
	if e.wordMatch {
		e.scorer = e.scorer.WithWordBoundary()
	}
	return e
}

// Start creates a fresh state with a newly permuted sequence.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	e.rngMu.Lock()
	sequence := sequencer.Build(e.bank, e.rng)
	e.rngMu.Unlock()

	state := domain.NewState(sessionID, sequence)
	now := e.now()
	state.CreatedAt = now
	state.UpdatedAt = now

	e.logger.Debug("session started", "session_id", sessionID, "questions", len(sequence))
	e.emitSessionStart(ctx, state)
	e.emitQuestionEnter(ctx, state)
	return state
}

// Reset discards the given state and returns a brand new one for the same session.
func (e *Engine) Reset(ctx context.Context, state *domain.State) *domain.State {
	sessionID := ""
	if state != nil {
		sessionID = state.SessionID
	}
	e.logger.Debug("session reset", "session_id", sessionID)
	return e.Start(ctx, sessionID)
}

// Current returns the question to be presented, or false when there is none.
func (e *Engine) Current(state *domain.State) (domain.Question, bool) {
	if state == nil {
		return domain.Question{}, false
	}
	return sequencer.Current(e.bank, state)
}

// Submit records an answer, applies its scoring effects and resolves the next question.
// It never fails: after completion it returns the state untouched, and keys
// unknown to the Relation Matrix are recorded without effect.
func (e *Engine) Submit(ctx context.Context, state *domain.State, contextKey, value string) *domain.State {
	if state == nil {
		return nil
	}
	if state.Done() {
		e.logger.Debug("answer ignored: session completed", "session_id", state.SessionID, "key", contextKey)
		return state
	}

	// 1. Sequencing (records the answer, resolves the branch)
	step := sequencer.Advance(e.bank, state, contextKey, value)
	next := step.State

	// 2. Scoring / elimination
	scores, eliminated, delta := e.scorer.Apply(next.Scores, next.Eliminated, contextKey, value)
	next.Scores = scores
	next.Eliminated = eliminated
	next.UpdatedAt = e.now()

	e.logger.Debug("answer recorded",
		"session_id", next.SessionID,
		"question", step.QuestionID,
		"key", contextKey,
		"signal", delta.Signal,
		"negative", delta.Negative,
	)
	if len(delta.Eliminated) > 0 {
		e.logger.Debug("candidates eliminated", "session_id", next.SessionID, "candidates", delta.Eliminated)
	}
	if step.BranchTo != "" {
		e.logger.Debug("branch taken", "session_id", next.SessionID, "from", step.QuestionID, "to", step.BranchTo)
	}

	e.emitAnswer(ctx, next, step, contextKey, value, delta)

	if next.Completed {
		e.logger.Debug("session completed", "session_id", next.SessionID, "answered", len(next.History))
		e.emitComplete(ctx, next)
	} else {
		e.emitQuestionEnter(ctx, next)
	}
	return next
}

// Rank returns the current recommendation list for the state.
func (e *Engine) Rank(state *domain.State) []domain.Recommendation {
	if state == nil {
		return ranking.Rank(e.candidates, nil, nil)
	}
	return ranking.Rank(e.candidates, state.Scores, state.Eliminated)
}

// Estimate derives the auxiliary display attribute from the recorded answers.
func (e *Engine) Estimate(state *domain.State) (domain.Estimate, bool) {
	if state == nil || e.estimator == nil {
		return domain.Estimate{}, false
	}
	return e.estimator.Estimate(state.Answers)
}

// Estimator returns the auxiliary estimator, nil when disabled.
func (e *Engine) Estimator() *estimator.Estimator {
	return e.estimator
}

// Bank returns the question bank.
func (e *Engine) Bank() *domain.Bank {
	return e.bank
}

// Candidates returns a copy of the candidate catalog.
func (e *Engine) Candidates() []domain.Candidate {
	out := make([]domain.Candidate, len(e.candidates))
	copy(out, e.candidates)
	return out
}

// Matrix returns the Relation Matrix.
func (e *Engine) Matrix() domain.Matrix {
	return e.matrix
}
