package ports

import (
	"context"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// Engine is the stateless questionnaire core.
// Adapters (HTTP, MCP) and the session manager hold state externally and pass
// it in on every call.
type Engine interface {
	// Start creates a fresh state with a newly permuted sequence.
	Start(ctx context.Context, sessionID string) *domain.State

	// Current returns the question to present, or nil when the session is complete.
	Current(state *domain.State) *domain.Question

	// Submit records an answer and returns the next state. It never fails.
	Submit(ctx context.Context, state *domain.State, contextKey, value string) *domain.State

	// Rank returns the recommendation list for the state, best first.
	Rank(state *domain.State) []domain.Recommendation

	// Estimate returns the auxiliary display attribute, if any.
	Estimate(state *domain.State) (domain.Estimate, bool)

	// Reset replaces the state with a fresh one for the same session.
	Reset(ctx context.Context, state *domain.State) *domain.State

	// Inspect returns the questions of the bank in declared order.
	Inspect() []domain.Question
}
