// Package scoring turns a single answer into score and elimination deltas,
// driven purely by the Relation Matrix.
package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// DefaultNegativeTokens are the answers treated as a negative response.
var DefaultNegativeTokens = []string{"não", "nao", "no"}

// Delta describes what one answer changed.
type Delta struct {
	Signal     bool               // signal has an entry in the matrix
	Negative   bool               // answer detected as a negative response
	Scored     map[string]float64 // candidate -> weight added
	Eliminated []string           // candidates newly eliminated
}

// Scorer applies answers against a Relation Matrix.
// It holds no session state: every call is fully determined by its inputs.
type Scorer struct {
	matrix       domain.Matrix
	tokens       []string
	wordBoundary bool
}

// New creates a Scorer. With no tokens, DefaultNegativeTokens is used.
func New(matrix domain.Matrix, negativeTokens ...string) *Scorer {
	return &Scorer{matrix: matrix, tokens: NormalizeTokens(negativeTokens)}
}

// WithWordBoundary returns a copy of the scorer that matches tokens as whole
// words only (see IsNegativeWord).
func (s *Scorer) WithWordBoundary() *Scorer {
	next := *s
	next.wordBoundary = true
	return &next
}

// NormalizeTokens lowercases and trims tokens, dropping empty ones.
// An empty input yields DefaultNegativeTokens.
func NormalizeTokens(negativeTokens []string) []string {
	if len(negativeTokens) == 0 {
		negativeTokens = DefaultNegativeTokens
	}
	tokens := make([]string, 0, len(negativeTokens))
	for _, t := range negativeTokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// IsNegative reports whether the answer is a negative response under the scorer's tokens.
func (s *Scorer) IsNegative(answer string) bool {
	if s.wordBoundary {
		return IsNegativeWord(answer, s.tokens)
	}
	return IsNegative(answer, s.tokens)
}

// Weight returns the effective weight of an effect: negative or
// non-finite weights count as 0.
func Weight(w float64) float64 {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

// Apply computes the effect of answering signal with answer.
// The input maps are never mutated; new maps are returned.
//
// Unknown signals are a no-op. A negative answer eliminates every linked
// candidate; any other answer adds each link's weight to the candidate's
// score. Negative, missing or non-finite weights count as 0.
func (s *Scorer) Apply(scores map[string]float64, eliminated map[string]bool, signal, answer string) (map[string]float64, map[string]bool, Delta) {
	nextScores := make(map[string]float64, len(scores))
	for k, v := range scores {
		nextScores[k] = v
	}
	nextEliminated := make(map[string]bool, len(eliminated))
	for k, v := range eliminated {
		nextEliminated[k] = v
	}

	effects, ok := s.matrix.Effects(signal)
	if !ok {
		return nextScores, nextEliminated, Delta{}
	}

	delta := Delta{Signal: true}

	if s.IsNegative(answer) {
		delta.Negative = true
		for _, e := range effects {
			if e.CandidateID == "" {
				continue
			}
			if !nextEliminated[e.CandidateID] {
				nextEliminated[e.CandidateID] = true
				delta.Eliminated = append(delta.Eliminated, e.CandidateID)
			}
		}
		return nextScores, nextEliminated, delta
	}

	delta.Scored = make(map[string]float64, len(effects))
	for _, e := range effects {
		if e.CandidateID == "" {
			continue
		}
		w := Weight(e.Weight)
		nextScores[e.CandidateID] += w
		delta.Scored[e.CandidateID] += w
	}
	return nextScores, nextEliminated, delta
}

// IsNegative reports whether answer equals or starts with one of the tokens,
// case-insensitively ("Não", "Não, nunca", "nope" with token "no").
func IsNegative(answer string, tokens []string) bool {
	clean := strings.ToLower(strings.TrimSpace(answer))
	if clean == "" {
		return false
	}
	for _, token := range tokens {
		if token != "" && strings.HasPrefix(clean, token) {
			return true
		}
	}
	return false
}

// IsNegativeWord is the stricter form of IsNegative: the token must be the
// whole answer or be followed by a non-letter, so "normal" is not a "no".
func IsNegativeWord(answer string, tokens []string) bool {
	clean := strings.ToLower(strings.TrimSpace(answer))
	if clean == "" {
		return false
	}
	for _, token := range tokens {
		if token == "" || !strings.HasPrefix(clean, token) {
			continue
		}
		rest := clean[len(token):]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
