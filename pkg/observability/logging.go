package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// LoggingHooks writes an audit trail of session events.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session started", "session_id", e.SessionID, "questions", e.Questions)
		},
		OnQuestionEnter: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.DebugContext(ctx, "question presented", "session_id", e.SessionID, "question", e.QuestionID, "index", e.Index)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			attrs := []any{
				"session_id", e.SessionID,
				"question", e.QuestionID,
				"key", e.ContextKey,
				"outcome", outcome(e),
			}
			if len(e.Eliminated) > 0 {
				attrs = append(attrs, "eliminated", e.Eliminated)
			}
			if e.BranchTo != "" {
				attrs = append(attrs, "branch_to", e.BranchTo)
			}
			logger.InfoContext(ctx, "answer recorded", attrs...)
		},
		OnComplete: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session completed", "session_id", e.SessionID, "answered", e.Questions)
		},
	}
}
