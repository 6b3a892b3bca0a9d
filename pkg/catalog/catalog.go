package catalog

import (
	"fmt"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// Estimates configures the auxiliary estimator of a catalog.
type Estimates struct {
	Attribute string                `json:"attribute" mapstructure:"attribute"`
	Rules     []domain.EstimateRule `json:"rules" mapstructure:"rules"`
}

// Catalog groups the static, caller-owned inputs of the engine.
type Catalog struct {
	Name           string
	Bank           *domain.Bank
	Candidates     []domain.Candidate
	Matrix         domain.Matrix
	Estimates      *Estimates
	NegativeTokens []string
}

// New assembles a catalog from already-built parts.
func New(name string, questions []domain.Question, candidates []domain.Candidate, matrix domain.Matrix) (*Catalog, error) {
	bank, err := domain.NewBank(questions...)
	if err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	if matrix == nil {
		matrix = domain.Matrix{}
	}
	return &Catalog{
		Name:       name,
		Bank:       bank,
		Candidates: candidates,
		Matrix:     matrix,
	}, nil
}

// Candidate returns the candidate with the given id.
func (c *Catalog) Candidate(id string) (domain.Candidate, bool) {
	for _, cand := range c.Candidates {
		if cand.ID == id {
			return cand, true
		}
	}
	return domain.Candidate{}, false
}
