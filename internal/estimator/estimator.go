// Package estimator derives secondary display attributes from recorded answers.
// It is cosmetic: it never touches scores or eliminations and never fails loudly.
package estimator

import (
	"strings"

	"github.com/aretw0/anamnesis/internal/scoring"
	"github.com/aretw0/anamnesis/pkg/domain"
)

// DefaultAttribute is the attribute produced by Default.
const DefaultAttribute = "faixa_etaria_estimada"

// Estimator evaluates rules in declared order; the first match wins.
type Estimator struct {
	attribute    string
	rules        []domain.EstimateRule
	tokens       []string
	wordBoundary bool
}

// New creates an Estimator for the given attribute. Tokens are normalized
// like the scorer's, defaulting to scoring.DefaultNegativeTokens.
func New(attribute string, rules []domain.EstimateRule, negativeTokens ...string) *Estimator {
	return &Estimator{
		attribute: attribute,
		rules:     rules,
		tokens:    scoring.NormalizeTokens(negativeTokens),
	}
}

// WithWordBoundary returns a copy that detects negative answers with
// scoring.IsNegativeWord.
func (e *Estimator) WithWordBoundary() *Estimator {
	if e == nil {
		return nil
	}
	next := *e
	next.wordBoundary = true
	return &next
}

// Signals returns the context keys the estimator reads, in rule order.
func (e *Estimator) Signals() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, r.Signal)
	}
	return out
}

// WithTokens returns a copy using the given negative tokens.
func (e *Estimator) WithTokens(negativeTokens ...string) *Estimator {
	if e == nil {
		return nil
	}
	next := *e
	next.tokens = scoring.NormalizeTokens(negativeTokens)
	return &next
}

// Default returns the approximate age bracket estimator.
func Default() *Estimator {
	return New(DefaultAttribute, []domain.EstimateRule{
		{Signal: "faixa_etaria"},
		{Signal: "rugas_profundas", Value: "50+"},
		{Signal: "flacidez_facial", Value: "40-50"},
		{Signal: "linhas_expressao", Value: "30-40"},
		{Signal: "acne_ativa", Value: "18-30"},
	})
}

// Attribute returns the name of the estimated attribute.
func (e *Estimator) Attribute() string {
	if e == nil {
		return ""
	}
	return e.attribute
}

// Estimate returns the derived attribute, or false when no qualifying signal
// is present. Any internal failure is reported as absent.
func (e *Estimator) Estimate(answers domain.Answers) (est domain.Estimate, ok bool) {
	if e == nil || len(answers) == 0 {
		return domain.Estimate{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			est, ok = domain.Estimate{}, false
		}
	}()

	for _, rule := range e.rules {
		raw, answered := answers[rule.Signal]
		if !answered || strings.TrimSpace(raw) == "" {
			continue
		}
		if !e.matches(rule, raw) {
			continue
		}
		value := rule.Value
		if value == "" {
			value = strings.TrimSpace(raw)
		}
		return domain.Estimate{Attribute: e.attribute, Value: value, Signal: rule.Signal}, true
	}
	return domain.Estimate{}, false
}

func (e *Estimator) matches(rule domain.EstimateRule, raw string) bool {
	if len(rule.Match) == 0 {
		// Without explicit matches, echo rules accept anything and
		// fixed-value rules need an affirmative answer.
		return rule.Value == "" || !e.negative(raw)
	}
	clean := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range rule.Match {
		if clean == strings.ToLower(strings.TrimSpace(m)) {
			return true
		}
	}
	return false
}

func (e *Estimator) negative(raw string) bool {
	if e.wordBoundary {
		return scoring.IsNegativeWord(raw, e.tokens)
	}
	return scoring.IsNegative(raw, e.tokens)
}
