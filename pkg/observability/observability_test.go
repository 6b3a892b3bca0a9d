package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/dsl"
	"github.com/aretw0/anamnesis/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, hooks domain.LifecycleHooks) {
	t.Helper()
	b := dsl.New("obs")
	b.Question("perfil_tipo").Prompt("Perfil?").Mandatory().Branch("pular", "manchas")
	b.Question("flacidez_facial").Prompt("Flacidez?").Mandatory().Affects("hipro", 10)
	b.Question("manchas").Prompt("Manchas?").Mandatory().Affects("luz_pulsada", 5).Affects("laser_co2", 2)
	b.Candidate("hipro", "Hipro")
	b.Candidate("luz_pulsada", "IPL")
	b.Candidate("laser_co2", "CO2")

	eng, err := anamnesis.New(b.MustBuild(), anamnesis.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	s := eng.NewSession(context.Background(), "obs-1")
	s.SubmitAnswer("perfil_tipo", "pular")
	s.SubmitAnswer("manchas", "Não")
	require.True(t, s.IsComplete())
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	runSession(t, m.Hooks())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Branches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswersTotal.WithLabelValues("perfil_tipo", observability.OutcomeIgnored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswersTotal.WithLabelValues("manchas", observability.OutcomeEliminated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Eliminations.WithLabelValues("luz_pulsada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Eliminations.WithLabelValues("laser_co2")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AnsweredPerSession))

	count, err := testutil.GatherAndCount(reg, "anamnesis_answers_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *observability.Metrics
	assert.Nil(t, m.Hooks().OnAnswer)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	runSession(t, observability.LoggingHooks(logger))

	out := buf.String()
	assert.Contains(t, out, "session started")
	assert.Contains(t, out, "question presented")
	assert.Contains(t, out, "branch_to=manchas")
	assert.Contains(t, out, "outcome=eliminated")
	assert.Contains(t, out, "session completed")
}

func TestChainedHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	var buf bytes.Buffer

	runSession(t, domain.ChainHooks(m.Hooks(), observability.LoggingHooks(logging.NewWithWriter(&buf, slog.LevelInfo))))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted))
	assert.Contains(t, buf.String(), "session completed")
	assert.NotContains(t, buf.String(), "question presented")
}
