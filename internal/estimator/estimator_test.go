package estimator_test

import (
	"testing"

	"github.com/aretw0/anamnesis/internal/estimator"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefault_EchoesExplicitAge(t *testing.T) {
	est, ok := estimator.Default().Estimate(domain.Answers{
		"faixa_etaria":    " 36-45 ",
		"flacidez_facial": "Sim",
	})
	assert.True(t, ok)
	assert.Equal(t, domain.Estimate{Attribute: estimator.DefaultAttribute, Value: "36-45", Signal: "faixa_etaria"}, est)
}

func TestDefault_DerivesFromSignals(t *testing.T) {
	e := estimator.Default()

	est, ok := e.Estimate(domain.Answers{"flacidez_facial": "Sim", "acne_ativa": "sim"})
	assert.True(t, ok)
	assert.Equal(t, "40-50", est.Value)

	// Negative answers do not qualify.
	est, ok = e.Estimate(domain.Answers{"flacidez_facial": "Não", "acne_ativa": "Sim"})
	assert.True(t, ok)
	assert.Equal(t, "18-30", est.Value)
	assert.Equal(t, "acne_ativa", est.Signal)
}

func TestEstimate_Absent(t *testing.T) {
	e := estimator.Default()

	_, ok := e.Estimate(nil)
	assert.False(t, ok)

	_, ok = e.Estimate(domain.Answers{"perfil_tipo": "profissional"})
	assert.False(t, ok)

	_, ok = e.Estimate(domain.Answers{"rugas_profundas": "não"})
	assert.False(t, ok)

	var nilEstimator *estimator.Estimator
	_, ok = nilEstimator.Estimate(domain.Answers{"faixa_etaria": "20"})
	assert.False(t, ok)
}

func TestEstimate_ExplicitMatch(t *testing.T) {
	e := estimator.New("pele", []domain.EstimateRule{
		{Signal: "fototipo", Match: []string{"I", "II"}, Value: "clara"},
		{Signal: "fototipo", Match: []string{"V", "VI"}, Value: "escura"},
	})

	est, ok := e.Estimate(domain.Answers{"fototipo": "vi"})
	assert.True(t, ok)
	assert.Equal(t, "escura", est.Value)
	assert.Equal(t, "pele", e.Attribute())

	_, ok = e.Estimate(domain.Answers{"fototipo": "III"})
	assert.False(t, ok)
}

func TestNew_NormalizesTokens(t *testing.T) {
	e := estimator.New("idade", []domain.EstimateRule{{Signal: "rugas_profundas", Value: "50+"}}, " NÃO ")

	_, ok := e.Estimate(domain.Answers{"rugas_profundas": "não"})
	assert.False(t, ok, "upper-case catalog tokens still match")

	est, ok := e.Estimate(domain.Answers{"rugas_profundas": "sim"})
	assert.True(t, ok)
	assert.Equal(t, "50+", est.Value)
}

func TestWithTokensAndWordBoundary(t *testing.T) {
	e := estimator.New("idade", []domain.EstimateRule{{Signal: "rugas_profundas", Value: "50+"}})

	_, ok := e.Estimate(domain.Answers{"rugas_profundas": "nunca"})
	assert.True(t, ok)
	_, ok = e.WithTokens("NUNCA").Estimate(domain.Answers{"rugas_profundas": "nunca"})
	assert.False(t, ok)

	_, ok = e.Estimate(domain.Answers{"rugas_profundas": "nope"})
	assert.False(t, ok, "prefix match is the default")
	_, ok = e.WithWordBoundary().Estimate(domain.Answers{"rugas_profundas": "nope"})
	assert.True(t, ok)

	assert.Equal(t, []string{"rugas_profundas"}, e.Signals())
	var nilEstimator *estimator.Estimator
	assert.Nil(t, nilEstimator.WithWordBoundary())
	assert.Nil(t, nilEstimator.Signals())
}
