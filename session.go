package anamnesis

import (
	"context"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// Session is a single respondent's run through the questionnaire.
//
// It owns one *domain.State and replaces it on every answer. A Session is not
// safe for concurrent use; callers needing shared access should go through
// pkg/session.Manager instead.
type Session struct {
	engine *Engine
	state  *domain.State
	ctx    context.Context
}

// NewSession starts a session with a fresh question sequence.
func (e *Engine) NewSession(ctx context.Context, sessionID string) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Session{
		engine: e,
		state:  e.Start(ctx, sessionID),
		ctx:    ctx,
	}
}

// Resume wraps a previously persisted state.
func (e *Engine) Resume(ctx context.Context, state *domain.State) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	if state == nil {
		return e.NewSession(ctx, "")
	}
	return &Session{engine: e, state: state.Clone(), ctx: ctx}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.state.SessionID
}

// CurrentQuestion returns the question to present next, or nil when the
// session is complete or the bank is empty.
func (s *Session) CurrentQuestion() *domain.Question {
	return s.engine.Current(s.state)
}

// SubmitAnswer records the answer for a context key.
// It never fails; after completion it has no effect.
func (s *Session) SubmitAnswer(contextKey, value string) {
	s.SubmitAnswerContext(s.ctx, contextKey, value)
}

// SubmitAnswerContext is SubmitAnswer with an explicit context for hooks.
func (s *Session) SubmitAnswerContext(ctx context.Context, contextKey, value string) {
	s.state = s.engine.Submit(ctx, s.state, contextKey, value)
}

// Ranking returns the current recommendation list, best first.
func (s *Session) Ranking() []domain.Recommendation {
	return s.engine.Rank(s.state)
}

// IsComplete reports whether there is no question left to present.
func (s *Session) IsComplete() bool {
	return s.state.Done()
}

// Reset discards every answer, score and elimination and reshuffles the sequence.
func (s *Session) Reset() {
	s.state = s.engine.Reset(s.ctx, s.state)
}

// Estimate returns the auxiliary display attribute, if any.
func (s *Session) Estimate() (domain.Estimate, bool) {
	return s.engine.Estimate(s.state)
}

// State returns a copy of the underlying state, suitable for persistence.
func (s *Session) State() *domain.State {
	return s.state.Clone()
}
