// Package ranking produces the externally visible recommendation list.
package ranking

import (
	"sort"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// Rank filters the catalog to enabled, active and non-eliminated candidates,
// attaches their accumulated score and sorts them by descending score.
// Ties keep the catalog order. The result is never nil.
func Rank(catalog []domain.Candidate, scores map[string]float64, eliminated map[string]bool) []domain.Recommendation {
	ranked := make([]domain.Recommendation, 0, len(catalog))
	for _, c := range catalog {
		if !c.Eligible() || eliminated[c.ID] {
			continue
		}
		ranked = append(ranked, domain.Recommendation{
			ID:    c.ID,
			Name:  c.Name,
			Score: scores[c.ID],
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Top returns at most n leading entries of a ranking.
func Top(ranked []domain.Recommendation, n int) []domain.Recommendation {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
