package domain

import "fmt"

// Bank is the ordered, immutable collection of questions of a questionnaire.
type Bank struct {
	questions []Question
	index     map[string]int
}

// NewBank creates a bank preserving the declared order.
// It rejects questions without id and duplicated ids.
func NewBank(questions ...Question) (*Bank, error) {
	b := &Bank{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question at position %d missing ID", len(b.questions))
		}
		if _, exists := b.index[q.ID]; exists {
			return nil, fmt.Errorf("duplicate question ID: %s", q.ID)
		}
		b.index[q.ID] = len(b.questions)
		b.questions = append(b.questions, q)
	}
	return b, nil
}

// Get returns the question with the given id.
func (b *Bank) Get(id string) (Question, bool) {
	if b == nil {
		return Question{}, false
	}
	i, ok := b.index[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// Index returns the declared position of a question, or -1.
func (b *Bank) Index(id string) int {
	if b == nil {
		return -1
	}
	if i, ok := b.index[id]; ok {
		return i
	}
	return -1
}

// Questions returns a copy of the questions in declared order.
func (b *Bank) Questions() []Question {
	if b == nil {
		return nil
	}
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.questions)
}
