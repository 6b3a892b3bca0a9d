// Package sequencer builds and advances the per-session question path.
package sequencer

import (
	"math/rand/v2"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// Build returns the mandatory questions in their declared relative order,
// followed by a uniform random permutation of the remaining questions.
// It must be invoked exactly once per session start or reset.
func Build(bank *domain.Bank, rng *rand.Rand) []string {
	questions := bank.Questions()
	sequence := make([]string, 0, len(questions))
	var optional []string

	for _, q := range questions {
		if q.Mandatory {
			sequence = append(sequence, q.ID)
		} else {
			optional = append(optional, q.ID)
		}
	}

	// Fisher-Yates
	for i := len(optional) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		optional[i], optional[j] = optional[j], optional[i]
	}

	return append(sequence, optional...)
}

// Current returns the question at the current index.
// The second value is false when the sequence is exhausted, the session is
// completed or the id no longer resolves against the bank.
func Current(bank *domain.Bank, state *domain.State) (domain.Question, bool) {
	if state.Done() {
		return domain.Question{}, false
	}
	return bank.Get(state.Sequence[state.CurrentIndex])
}

// Step is the outcome of Advance.
type Step struct {
	State      *domain.State
	QuestionID string // question that was answered ("" if none was current)
	BranchTo   string // forward jump target, "" for linear advancement
}

// Advance records an answer and resolves the next index.
// The given state is never mutated; a completed state is returned unchanged.
//
// Branch targets are only honored when they resolve to a position strictly
// after the current index. Null, unknown, backward and self targets fall back
// to linear advancement (or completion on the last index), so a branch can
// never create a loop.
func Advance(bank *domain.Bank, state *domain.State, key, value string) Step {
	if state.Done() {
		return Step{State: state}
	}

	next := state.Clone()
	next.Answers[key] = value

	current := next.CurrentIndex
	questionID := next.Sequence[current]
	next.History = append(next.History, questionID)

	target := ""
	if q, ok := bank.Get(questionID); ok {
		target = evaluate(q, bank, next.Answers)
	}

	if p := position(next.Sequence, target); target != "" && p > current {
		next.CurrentIndex = p
		return Step{State: next, QuestionID: questionID, BranchTo: target}
	}

	if current >= len(next.Sequence)-1 {
		next.Completed = true
	} else {
		next.CurrentIndex = current + 1
	}
	return Step{State: next, QuestionID: questionID}
}

// evaluate runs the branch of q, absorbing panics from caller-supplied predicates.
func evaluate(q domain.Question, bank *domain.Bank, answers domain.Answers) (target string) {
	defer func() {
		if r := recover(); r != nil {
			target = ""
		}
	}()

	// Predicates get a private copy so they cannot alter the session.
	view := make(domain.Answers, len(answers))
	for k, v := range answers {
		view[k] = v
	}
	return q.Target(bank, view)
}

func position(sequence []string, id string) int {
	if id == "" {
		return -1
	}
	for i, s := range sequence {
		if s == id {
			return i
		}
	}
	return -1
}
