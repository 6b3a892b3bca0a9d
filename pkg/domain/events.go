package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart  EventType = "session_start"
	EventQuestionEnter EventType = "question_enter"
	EventAnswer        EventType = "answer_recorded"
	EventComplete      EventType = "session_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// SessionEvent represents the start or completion of a session.
type SessionEvent struct {
	EventBase
	Questions int `json:"questions"` // sequence length on start, answered count on completion
}

// QuestionEvent represents a question becoming current.
type QuestionEvent struct {
	EventBase
	QuestionID string `json:"question_id"`
	Index      int    `json:"index"`
}

// AnswerEvent represents a recorded answer and its effects.
type AnswerEvent struct {
	EventBase
	QuestionID string             `json:"question_id"`
	ContextKey string             `json:"context_key"`
	Value      string             `json:"value"`
	Signal     bool               `json:"signal"` // true if the key is known to the Relation Matrix
	Negative   bool               `json:"negative"`
	Scored     map[string]float64 `json:"scored,omitempty"`
	Eliminated []string           `json:"eliminated,omitempty"`
	BranchTo   string             `json:"branch_to,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnSessionStart  func(context.Context, *SessionEvent)
	OnQuestionEnter func(context.Context, *QuestionEvent)
	OnAnswer        func(context.Context, *AnswerEvent)
	OnComplete      func(context.Context, *SessionEvent)
}

// ChainHooks combines several hook sets; callbacks run in the given order.
func ChainHooks(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range sets {
		h := h
		if h.OnSessionStart != nil {
			prev := out.OnSessionStart
			out.OnSessionStart = func(ctx context.Context, e *SessionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnSessionStart(ctx, e)
			}
		}
		if h.OnQuestionEnter != nil {
			prev := out.OnQuestionEnter
			out.OnQuestionEnter = func(ctx context.Context, e *QuestionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnQuestionEnter(ctx, e)
			}
		}
		if h.OnAnswer != nil {
			prev := out.OnAnswer
			out.OnAnswer = func(ctx context.Context, e *AnswerEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnAnswer(ctx, e)
			}
		}
		if h.OnComplete != nil {
			prev := out.OnComplete
			out.OnComplete = func(ctx context.Context, e *SessionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnComplete(ctx, e)
			}
		}
	}
	return out
}
