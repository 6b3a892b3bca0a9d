package domain

// Effect links a signal to a candidate with a positive weight.
type Effect struct {
	CandidateID string  `json:"candidate" yaml:"candidate" mapstructure:"candidate"`
	Weight      float64 `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// Matrix is the static Relation Matrix: signal key -> weighted effects.
type Matrix map[string][]Effect

// Effects returns the effects linked to a signal.
// The second value is false when the signal has no entry.
func (m Matrix) Effects(signal string) ([]Effect, bool) {
	effects, ok := m[signal]
	return effects, ok
}

// Candidates returns every candidate id referenced by the matrix, deduplicated.
func (m Matrix) Candidates() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, effects := range m {
		for _, e := range effects {
			if !seen[e.CandidateID] {
				seen[e.CandidateID] = true
				ids = append(ids, e.CandidateID)
			}
		}
	}
	return ids
}
