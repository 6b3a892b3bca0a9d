package domain_test

import (
	"testing"

	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBank_PreservesOrder(t *testing.T) {
	bank, err := domain.NewBank(
		domain.Question{ID: "a"},
		domain.Question{ID: "b"},
		domain.Question{ID: "c"},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, bank.Len())
	assert.Equal(t, 1, bank.Index("b"))
	assert.Equal(t, -1, bank.Index("missing"))

	q, ok := bank.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "c", q.ID)
}

func TestNewBank_RejectsInvalid(t *testing.T) {
	_, err := domain.NewBank(domain.Question{ID: "a"}, domain.Question{ID: "a"})
	assert.Error(t, err)

	_, err = domain.NewBank(domain.Question{Prompt: "no id"})
	assert.Error(t, err)
}

func TestQuestion_Key(t *testing.T) {
	assert.Equal(t, "perfil", domain.Question{ID: "q1", ContextKey: "perfil"}.Key())
	assert.Equal(t, "q1", domain.Question{ID: "q1"}.Key())
}

func TestBranchRule_Matches(t *testing.T) {
	answers := domain.Answers{"perfil_tipo": "  Profissional "}

	tests := []struct {
		name string
		rule domain.BranchRule
		want bool
	}{
		{"equals is case-insensitive", domain.BranchRule{When: "perfil_tipo", Equals: "PROFISSIONAL"}, true},
		{"equals mismatch", domain.BranchRule{When: "perfil_tipo", Equals: "paciente"}, false},
		{"in list", domain.BranchRule{When: "perfil_tipo", In: []string{"clinica", "profissional"}}, true},
		{"not in list", domain.BranchRule{When: "perfil_tipo", In: []string{"clinica"}}, false},
		{"prefix", domain.BranchRule{When: "perfil_tipo", Prefix: "prof"}, true},
		{"bare rule matches any answer", domain.BranchRule{When: "perfil_tipo"}, true},
		{"missing key", domain.BranchRule{When: "other", Present: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(answers))
		})
	}
}

func TestQuestion_Target(t *testing.T) {
	bank, err := domain.NewBank(domain.Question{ID: "a"}, domain.Question{ID: "c"})
	require.NoError(t, err)

	t.Run("rules first match wins", func(t *testing.T) {
		q := domain.Question{
			ID: "a",
			Rules: []domain.BranchRule{
				{When: "a", Equals: "sim", To: "c"},
				{When: "a", To: "b"},
			},
		}
		assert.Equal(t, "c", q.Target(bank, domain.Answers{"a": "Sim"}))
		assert.Equal(t, "b", q.Target(bank, domain.Answers{"a": "Não"}))
		assert.Equal(t, "", q.Target(bank, domain.Answers{}))
	})

	t.Run("branch func overrides rules", func(t *testing.T) {
		q := domain.Question{
			ID:    "a",
			Rules: []domain.BranchRule{{When: "a", To: "b"}},
			Branch: func(b *domain.Bank, answers domain.Answers) string {
				if _, ok := b.Get("c"); ok {
					return "c"
				}
				return ""
			},
		}
		assert.Equal(t, "c", q.Target(bank, domain.Answers{"a": "x"}))
	})
}

func TestState_CloneIsolation(t *testing.T) {
	s := domain.NewState("s1", []string{"a", "b"})
	s.Answers["a"] = "x"
	s.Scores["hipro"] = 10
	s.Eliminated["laser"] = true

	c := s.Clone()
	c.Answers["b"] = "y"
	c.Scores["hipro"] = 20
	c.Eliminated["other"] = true
	c.Sequence[0] = "z"

	assert.Len(t, s.Answers, 1)
	assert.Equal(t, 10.0, s.Scores["hipro"])
	assert.False(t, s.Eliminated["other"])
	assert.Equal(t, "a", s.Sequence[0])
}

func TestState_Done(t *testing.T) {
	s := domain.NewState("s1", []string{"a"})
	assert.False(t, s.Done())

	s.CurrentIndex = 1
	assert.True(t, s.Done())

	empty := domain.NewState("s2", nil)
	assert.False(t, empty.Completed)
	assert.True(t, empty.Done())
}

func TestDiff(t *testing.T) {
	old := domain.NewState("s1", []string{"a", "b"})
	next := old.Clone()
	next.CurrentIndex = 1
	next.Answers["a"] = "Sim"
	next.Scores["hipro"] = 10
	next.Eliminated["laser"] = true
	next.History = append(next.History, "a")

	diff := domain.Diff(old, next)
	require.NotNil(t, diff)
	assert.Equal(t, "s1", diff.SessionID)
	require.NotNil(t, diff.CurrentIndex)
	assert.Equal(t, 1, *diff.CurrentIndex)
	assert.Nil(t, diff.Completed)
	assert.Equal(t, map[string]string{"a": "Sim"}, diff.Answers)
	assert.Equal(t, map[string]float64{"hipro": 10}, diff.Scores)
	assert.ElementsMatch(t, []string{"laser"}, diff.Eliminated)
	assert.Equal(t, []string{"a"}, diff.History)

	assert.Nil(t, domain.Diff(next, next.Clone()))
}

func TestDiff_InitialLoad(t *testing.T) {
	s := domain.NewState("s1", []string{"a"})
	s.Answers["a"] = "x"
	diff := domain.Diff(nil, s)
	require.NotNil(t, diff)
	assert.Equal(t, "x", diff.Answers["a"])
}

func TestMatrix_Candidates(t *testing.T) {
	m := domain.Matrix{
		"flacidez": {{CandidateID: "hipro", Weight: 10}, {CandidateID: "radio", Weight: 5}},
		"gordura":  {{CandidateID: "hipro", Weight: 3}},
	}
	assert.ElementsMatch(t, []string{"hipro", "radio"}, m.Candidates())

	_, ok := m.Effects("unknown")
	assert.False(t, ok)
}
