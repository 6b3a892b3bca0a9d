package domain

import "time"

// State represents the current snapshot of a diagnostic session.
// It is created fresh at session start or reset and mutated only through answer submission.
type State struct {
	// SessionID identifies the session (used by outer layers for persistence).
	SessionID string `json:"session_id"`

	// Sequence is the ordered list of question ids, fixed once built.
	Sequence []string `json:"sequence"`

	// CurrentIndex points into Sequence. It never decreases.
	CurrentIndex int `json:"current_index"`

	// Answers holds every recorded answer keyed by context key.
	Answers Answers `json:"answers"`

	// Scores accumulates candidate relevance. Missing entries read as 0.
	Scores map[string]float64 `json:"scores"`

	// Eliminated is the set of candidates removed for the rest of the session.
	Eliminated map[string]bool `json:"eliminated"`

	// Completed is set once the sequence has been exhausted.
	Completed bool `json:"completed"`

	// History tracks the question ids actually answered, in order.
	History []string `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state for the given sequence.
func NewState(sessionID string, sequence []string) *State {
	seq := make([]string, len(sequence))
	copy(seq, sequence)
	now := time.Now().UTC()
	return &State{
		SessionID:  sessionID,
		Sequence:   seq,
		Answers:    make(Answers),
		Scores:     make(map[string]float64),
		Eliminated: make(map[string]bool),
		History:    []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Done reports whether no question is left to ask.
func (s *State) Done() bool {
	if s == nil {
		return true
	}
	return s.Completed || s.CurrentIndex >= len(s.Sequence)
}

// IsEliminated reports whether the candidate was eliminated in this session.
func (s *State) IsEliminated(candidateID string) bool {
	return s != nil && s.Eliminated[candidateID]
}

// Clone creates a deep copy of the state for safe mutation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s

	next.Sequence = make([]string, len(s.Sequence))
	copy(next.Sequence, s.Sequence)

	next.History = make([]string, len(s.History))
	copy(next.History, s.History)

	next.Answers = make(Answers, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.Scores = make(map[string]float64, len(s.Scores))
	for k, v := range s.Scores {
		next.Scores[k] = v
	}
	next.Eliminated = make(map[string]bool, len(s.Eliminated))
	for k, v := range s.Eliminated {
		next.Eliminated[k] = v
	}
	return &next
}
