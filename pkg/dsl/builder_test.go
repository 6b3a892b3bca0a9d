package dsl

import (
	"testing"

	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Catalog(t *testing.T) {
	b := New("clinica")

	b.Question("perfil_tipo").
		Prompt("Você é profissional, clínica ou paciente?").
		Options("Profissional", "Clínica", "Paciente").
		Mandatory()

	b.Question("flacidez_facial").
		Prompt("Há queixa de flacidez facial?").
		Options("Sim", "Não").
		Branch("Não", "manchas").
		Affects("hipro", 10).
		Affects("radiofrequencia", 7)

	b.Question("manchas").
		Prompt("Há manchas?").
		SaveTo("hiperpigmentacao").
		Affects("luz_pulsada", 9)

	b.Candidate("hipro", "Hipro HIFU").Attr("categoria", "facial")
	b.Candidate("radiofrequencia", "Radiofrequência").Inactive()
	b.Candidate("luz_pulsada", "Luz Pulsada").Disabled().Describe("IPL")
	b.Relate("perfil_tipo", "hipro", 1)
	b.NegativeTokens("não", "nunca")
	b.Estimate("idade", domain.EstimateRule{Signal: "perfil_tipo"})

	cat, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "clinica", cat.Name)
	require.Equal(t, 3, cat.Bank.Len())
	assert.Equal(t, 0, cat.Bank.Index("perfil_tipo"))
	assert.Equal(t, 2, cat.Bank.Index("manchas"))

	flacidez, _ := cat.Bank.Get("flacidez_facial")
	assert.Equal(t, "manchas", flacidez.Target(cat.Bank, domain.Answers{"flacidez_facial": "NÃO"}))

	assert.Len(t, cat.Matrix["flacidez_facial"], 2)
	assert.Equal(t, []domain.Effect{{CandidateID: "luz_pulsada", Weight: 9}}, cat.Matrix["hiperpigmentacao"])
	assert.Equal(t, []domain.Effect{{CandidateID: "hipro", Weight: 1}}, cat.Matrix["perfil_tipo"])

	require.Len(t, cat.Candidates, 3)
	assert.True(t, cat.Candidates[0].Eligible())
	assert.Equal(t, "facial", cat.Candidates[0].Attributes["categoria"])
	assert.True(t, cat.Candidates[1].Enabled)
	assert.False(t, cat.Candidates[1].Active)
	assert.False(t, cat.Candidates[2].Enabled)
	assert.Equal(t, "IPL", cat.Candidates[2].Description)

	assert.Equal(t, []string{"não", "nunca"}, cat.NegativeTokens)
	require.NotNil(t, cat.Estimates)
	assert.Equal(t, "idade", cat.Estimates.Attribute)
}

func TestBuilder_ReusesExisting(t *testing.T) {
	b := New("reuse")
	first := b.Question("a").Prompt("A?")
	again := b.Question("a")
	assert.Same(t, first, again)
	assert.Same(t, b.Candidate("c", "C"), b.Candidate("c", "other"))

	cat := b.MustBuild()
	assert.Equal(t, 1, cat.Bank.Len())
	assert.Len(t, cat.Candidates, 1)
}

func TestBuilder_BranchFunc(t *testing.T) {
	b := New("fn")
	b.Question("a").BranchFunc(func(bank *domain.Bank, answers domain.Answers) string {
		if answers["a"] == "pular" {
			return "c"
		}
		return ""
	})
	b.Question("b")
	b.Question("c")

	cat := b.MustBuild()
	a, _ := cat.Bank.Get("a")
	assert.Equal(t, "c", a.Target(cat.Bank, domain.Answers{"a": "pular"}))
	assert.Empty(t, a.Target(cat.Bank, domain.Answers{"a": "ficar"}))
}

func TestBuilder_InvalidQuestionID(t *testing.T) {
	b := New("bad")
	b.Question("")
	_, err := b.Build()
	assert.Error(t, err)
	assert.Panics(t, func() { b.MustBuild() })
}
