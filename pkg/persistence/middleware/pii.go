package middleware

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/ports"
)

// Mask replaces answers whose context key is considered personal data.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the answers stored under
// context keys matching any of the patterns (e.g. "nome", "telefone|email").
// Scores and eliminations are kept, so a resumed session ranks the same.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, 0, len(patternStrings))
	for _, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

// SensitiveKeys returns the keys matched by any of the patterns.
func SensitiveKeys(patternStrings, keys []string) ([]string, error) {
	var out []string
	for _, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		for _, k := range keys {
			if re.MatchString(k) && !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	return out, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// Clone so the in-memory state driving the session keeps the real answers.
	cloned := state.Clone()
	for key := range cloned.Answers {
		if m.sensitive(key) {
			cloned.Answers[key] = Mask
		}
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) sensitive(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
