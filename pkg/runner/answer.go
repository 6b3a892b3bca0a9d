package runner

import (
	"strconv"
	"strings"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// ResolveAnswer maps raw input to the value recorded for q.
// A 1-based option number or a case-insensitive option match yields the
// canonical option text; anything else is recorded as free text.
func ResolveAnswer(q *domain.Question, raw string) string {
	raw = strings.TrimSpace(raw)
	if q == nil || len(q.Options) == 0 {
		return raw
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt, raw) {
			return opt
		}
	}
	return raw
}
