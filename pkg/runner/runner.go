package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/internal/ranking"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/ports"
)

// DefaultPreviewSize is the number of candidates shown after each answer.
const DefaultPreviewSize = 3

// ErrInterrupted is returned when the respondent quits before completion.
var ErrInterrupted = errors.New("session interrupted")

// Runner drives a session over an IOHandler until completion.
type Runner struct {
	Handler     IOHandler
	Logger      *slog.Logger
	Store       ports.SessionStore
	SessionID   string
	PreviewSize int

	initialState *domain.State
}

// NewRunner creates a Runner. Without a handler it talks text over Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:      logging.NewNop(),
		PreviewSize: DefaultPreviewSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run executes the question loop. It returns the last state, which is also
// persisted to Store after every answer when one is configured.
// Typing "sair", "exit" or "quit" stops early with ErrInterrupted.
func (r *Runner) Run(ctx context.Context, eng *anamnesis.Engine) (*domain.State, error) {
	state := r.initialState
	if state == nil {
		state = eng.Start(ctx, r.SessionID)
		if err := r.save(ctx, state); err != nil {
			return state, err
		}
	}

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		q := eng.Current(state)
		if q == nil {
			break
		}
		prompt := Prompt{Question: q, Position: len(state.History) + 1, Total: remaining(state) + len(state.History)}
		if err := r.Handler.Ask(ctx, prompt); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}

		raw, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return state, ErrInterrupted
			}
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				_ = r.Handler.SystemOutput(ctx, err.Error())
				continue
			}
			return state, fmt.Errorf("input error: %w", err)
		}
		if isQuit(raw) {
			return state, ErrInterrupted
		}
		if raw == "" {
			continue
		}

		value := ResolveAnswer(q, raw)
		state = eng.Submit(ctx, state, q.Key(), value)
		r.Logger.Debug("answer submitted", "session_id", state.SessionID, "question", q.ID, "value", value)

		if err := r.save(ctx, state); err != nil {
			return state, fmt.Errorf("critical persistence error: %w", err)
		}
		if !state.Done() && r.PreviewSize > 0 {
			if err := r.Handler.Progress(ctx, ranking.Top(eng.Rank(state), r.PreviewSize)); err != nil {
				return state, fmt.Errorf("output error: %w", err)
			}
		}
	}

	result := Result{
		SessionID: state.SessionID,
		Ranking:   eng.Rank(state),
		Answered:  len(state.History),
	}
	if est, ok := eng.Estimate(state); ok {
		result.Estimate = &est
	}
	if err := r.Handler.Finish(ctx, result); err != nil {
		return state, fmt.Errorf("output error: %w", err)
	}
	return state, nil
}

func (r *Runner) save(ctx context.Context, state *domain.State) error {
	if r.Store == nil || state.SessionID == "" {
		return nil
	}
	if err := r.Store.Save(ctx, state.SessionID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", state.SessionID, "index", state.CurrentIndex)
	return nil
}

// remaining counts the questions still ahead, including the current one.
func remaining(state *domain.State) int {
	if state.Done() {
		return 0
	}
	return len(state.Sequence) - state.CurrentIndex
}

func isQuit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sair", "exit", "quit":
		return true
	}
	return false
}
