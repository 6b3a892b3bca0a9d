package runner

import (
	"context"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// ContentRenderer transforms markdown before it is written (e.g. to ANSI).
type ContentRenderer func(string) (string, error)

// Prompt is a question as presented to the respondent.
type Prompt struct {
	Question *domain.Question `json:"question"`
	Position int              `json:"position"` // 1-based position in the sequence
	Total    int              `json:"total"`
}

// Result is the outcome of a finished session.
type Result struct {
	SessionID string                  `json:"session_id"`
	Ranking   []domain.Recommendation `json:"ranking"`
	Estimate  *domain.Estimate        `json:"estimate,omitempty"`
	Answered  int                     `json:"answered"`
}

// IOHandler defines the strategy for interacting with the respondent.
// This allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// Ask presents a question.
	Ask(ctx context.Context, p Prompt) error

	// Input reads a raw answer.
	Input(ctx context.Context) (string, error)

	// Progress shows the live ranking preview after an answer.
	Progress(ctx context.Context, top []domain.Recommendation) error

	// Finish presents the final ranking.
	Finish(ctx context.Context, r Result) error

	// SystemOutput presents a meta-message (errors, status updates).
	SystemOutput(ctx context.Context, msg string) error
}
