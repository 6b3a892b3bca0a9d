package ranking_test

import (
	"testing"

	"github.com/aretw0/anamnesis/internal/ranking"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func catalog() []domain.Candidate {
	return []domain.Candidate{
		{ID: "a", Name: "Alpha", Enabled: true, Active: true},
		{ID: "b", Name: "Beta", Enabled: true, Active: true},
		{ID: "off", Name: "Disabled", Enabled: false, Active: true},
		{ID: "idle", Name: "Inactive", Enabled: true, Active: false},
		{ID: "c", Name: "Gamma", Enabled: true, Active: true},
		{ID: "d", Name: "Delta", Enabled: true, Active: true},
	}
}

func TestRank_SortsDescendingWithStableTies(t *testing.T) {
	scores := map[string]float64{"b": 5, "c": 10, "d": 5, "off": 100, "idle": 100}
	got := ranking.Rank(catalog(), scores, nil)

	assert.Equal(t, []domain.Recommendation{
		{ID: "c", Name: "Gamma", Score: 10},
		{ID: "b", Name: "Beta", Score: 5},
		{ID: "d", Name: "Delta", Score: 5},
		{ID: "a", Name: "Alpha", Score: 0},
	}, got)
}

func TestRank_FiltersEliminated(t *testing.T) {
	got := ranking.Rank(catalog(), map[string]float64{"a": 1}, map[string]bool{"a": true, "c": true})
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "d"}, ids)
}

func TestRank_EmptyIsNotNil(t *testing.T) {
	got := ranking.Rank(nil, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_Idempotent(t *testing.T) {
	scores := map[string]float64{"a": 2, "b": 2, "c": 1}
	assert.Equal(t, ranking.Rank(catalog(), scores, nil), ranking.Rank(catalog(), scores, nil))
}

func TestRank_IgnoresDanglingScores(t *testing.T) {
	got := ranking.Rank(catalog(), map[string]float64{"ghost": 99}, map[string]bool{"ghost": true})
	assert.Len(t, got, 4)
	assert.Equal(t, "a", got[0].ID)
}

func TestTop(t *testing.T) {
	ranked := ranking.Rank(catalog(), nil, nil)
	assert.Len(t, ranking.Top(ranked, 2), 2)
	assert.Len(t, ranking.Top(ranked, 10), 4)
	assert.Len(t, ranking.Top(ranked, -1), 4)
}
