package domain

// StateDiff represents the changes between two session states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentIndex *int  `json:"current_index,omitempty"`
	Completed    *bool `json:"completed,omitempty"`

	// Answers contains only added or modified answers.
	Answers map[string]string `json:"answers,omitempty"`

	// Scores contains the new absolute score of every candidate whose score moved.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Eliminated lists candidates eliminated since the old state.
	Eliminated []string `json:"eliminated,omitempty"`

	// History contains question ids appended to the history.
	History []string `json:"history,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}
	if oldState == nil {
		oldState = &State{}
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState.CurrentIndex != newState.CurrentIndex {
		idx := newState.CurrentIndex
		diff.CurrentIndex = &idx
	}
	if oldState.Completed != newState.Completed {
		done := newState.Completed
		diff.Completed = &done
	}

	for k, v := range newState.Answers {
		if old, ok := oldState.Answers[k]; !ok || old != v {
			if diff.Answers == nil {
				diff.Answers = make(map[string]string)
			}
			diff.Answers[k] = v
		}
	}

	for k, v := range newState.Scores {
		if oldState.Scores[k] != v {
			if diff.Scores == nil {
				diff.Scores = make(map[string]float64)
			}
			diff.Scores[k] = v
		}
	}

	for k, gone := range newState.Eliminated {
		if gone && !oldState.Eliminated[k] {
			diff.Eliminated = append(diff.Eliminated, k)
		}
	}

	// History is append-only.
	if len(newState.History) > len(oldState.History) {
		diff.History = newState.History[len(oldState.History):]
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentIndex == nil &&
		d.Completed == nil &&
		len(d.Answers) == 0 &&
		len(d.Scores) == 0 &&
		len(d.Eliminated) == 0 &&
		len(d.History) == 0
}
