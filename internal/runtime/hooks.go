package runtime

import (
	"context"

	"github.com/aretw0/anamnesis/internal/scoring"
	"github.com/aretw0/anamnesis/internal/sequencer"
	"github.com/aretw0/anamnesis/pkg/domain"
)

func (e *Engine) base(state *domain.State, t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: state.SessionID,
	}
}

func (e *Engine) emitSessionStart(ctx context.Context, state *domain.State) {
	if e.hooks.OnSessionStart == nil {
		return
	}
	e.hooks.OnSessionStart(ctx, &domain.SessionEvent{
		EventBase: e.base(state, domain.EventSessionStart),
		Questions: len(state.Sequence),
	})
}

func (e *Engine) emitQuestionEnter(ctx context.Context, state *domain.State) {
	if e.hooks.OnQuestionEnter == nil || state.Done() {
		return
	}
	e.hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{
		EventBase:  e.base(state, domain.EventQuestionEnter),
		QuestionID: state.Sequence[state.CurrentIndex],
		Index:      state.CurrentIndex,
	})
}

func (e *Engine) emitAnswer(ctx context.Context, state *domain.State, step sequencer.Step, key, value string, delta scoring.Delta) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
		EventBase:  e.base(state, domain.EventAnswer),
		QuestionID: step.QuestionID,
		ContextKey: key,
		Value:      value,
		Signal:     delta.Signal,
		Negative:   delta.Negative,
		Scored:     delta.Scored,
		Eliminated: delta.Eliminated,
		BranchTo:   step.BranchTo,
	})
}

func (e *Engine) emitComplete(ctx context.Context, state *domain.State) {
	if e.hooks.OnComplete == nil {
		return
	}
	e.hooks.OnComplete(ctx, &domain.SessionEvent{
		EventBase: e.base(state, domain.EventComplete),
		Questions: len(state.History),
	})
}
