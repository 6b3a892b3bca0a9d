package dsl

import (
	"fmt"

	"github.com/aretw0/anamnesis/pkg/catalog"
	"github.com/aretw0/anamnesis/pkg/domain"
)

// Builder manages the catalog construction.
type Builder struct {
	name       string
	questions  []*QuestionBuilder
	byID       map[string]*QuestionBuilder
	candidates []*CandidateBuilder
	byCand     map[string]*CandidateBuilder
	relations  []relation
	tokens     []string
	estimates  *catalog.Estimates
}

type relation struct {
	signal string
	effect domain.Effect
}

// New creates a new catalog builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		byID:   make(map[string]*QuestionBuilder),
		byCand: make(map[string]*CandidateBuilder),
	}
}

// Question adds a question to the bank, in call order.
// If the question already exists, it returns the existing builder.
func (b *Builder) Question(id string) *QuestionBuilder {
	if qb, ok := b.byID[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{ID: id},
		builder:  b,
	}
	b.byID[id] = qb
	b.questions = append(b.questions, qb)
	return qb
}

// Candidate adds an enabled, active candidate to the catalog.
// If the candidate already exists, it returns the existing builder.
func (b *Builder) Candidate(id, name string) *CandidateBuilder {
	if cb, ok := b.byCand[id]; ok {
		return cb
	}
	cb := &CandidateBuilder{
		candidate: domain.Candidate{ID: id, Name: name, Enabled: true, Active: true},
	}
	b.byCand[id] = cb
	b.candidates = append(b.candidates, cb)
	return cb
}

// Relate links an arbitrary signal to a candidate.
func (b *Builder) Relate(signal, candidateID string, weight float64) *Builder {
	b.relations = append(b.relations, relation{
		signal: signal,
		effect: domain.Effect{CandidateID: candidateID, Weight: weight},
	})
	return b
}

// NegativeTokens overrides the negative answer vocabulary.
func (b *Builder) NegativeTokens(tokens ...string) *Builder {
	b.tokens = tokens
	return b
}

// Estimate configures the auxiliary estimator.
func (b *Builder) Estimate(attribute string, rules ...domain.EstimateRule) *Builder {
	b.estimates = &catalog.Estimates{Attribute: attribute, Rules: rules}
	return b
}

// Build compiles the catalog.
func (b *Builder) Build() (*catalog.Catalog, error) {
	questions := make([]domain.Question, 0, len(b.questions))
	matrix := domain.Matrix{}
	for _, qb := range b.questions {
		questions = append(questions, qb.question)
		for _, e := range qb.effects {
			key := qb.question.Key()
			matrix[key] = append(matrix[key], e)
		}
	}
	for _, r := range b.relations {
		matrix[r.signal] = append(matrix[r.signal], r.effect)
	}

	candidates := make([]domain.Candidate, 0, len(b.candidates))
	for _, cb := range b.candidates {
		candidates = append(candidates, cb.candidate)
	}

	cat, err := catalog.New(b.name, questions, candidates, matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	cat.NegativeTokens = b.tokens
	cat.Estimates = b.estimates
	return cat, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *catalog.Catalog {
	cat, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cat
}
