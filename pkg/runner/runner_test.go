package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/pkg/adapters/memory"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/dsl"
	"github.com/aretw0/anamnesis/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *anamnesis.Engine {
	t.Helper()
	b := dsl.New("runner")
	b.Question("perfil_tipo").
		Prompt("Você é profissional, clínica ou paciente?").
		Options("Profissional", "Clínica", "Paciente").
		Mandatory()
	b.Question("flacidez_facial").
		Prompt("Há queixa de flacidez facial?").
		Options("Sim", "Não").
		Mandatory().
		Affects("hipro", 10)
	b.Candidate("hipro", "Hipro")
	b.Estimate("perfil", domain.EstimateRule{Signal: "perfil_tipo"})

	eng, err := anamnesis.New(b.MustBuild())
	require.NoError(t, err)
	return eng
}

func TestRunner_TextSession(t *testing.T) {
	var out bytes.Buffer
	store := memory.NewStore()
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("1\n\nsim\n"), &out)),
		runner.WithStore(store),
		runner.WithSessionID("texto"),
	)

	state, err := r.Run(context.Background(), newEngine(t))
	require.NoError(t, err)

	assert.True(t, state.Done())
	assert.Equal(t, "Profissional", state.Answers["perfil_tipo"])
	assert.Equal(t, "Sim", state.Answers["flacidez_facial"])

	text := out.String()
	assert.Contains(t, text, "### (1/2) Você é profissional, clínica ou paciente?")
	assert.Contains(t, text, "2. Clínica")
	assert.Contains(t, text, "Top: 1. Hipro (0)")
	assert.Contains(t, text, "| 1 | Hipro | 10 |")
	assert.Contains(t, text, "_perfil: Profissional_")

	saved, err := store.Load(context.Background(), "texto")
	require.NoError(t, err)
	assert.True(t, saved.Done())
}

func TestRunner_EmptyRanking(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("Paciente\n2\n"), &out)),
		runner.WithPreviewSize(0),
	)

	state, err := r.Run(context.Background(), newEngine(t))
	require.NoError(t, err)
	assert.True(t, state.Eliminated["hipro"])
	assert.NotContains(t, out.String(), "Top:")
	assert.Contains(t, out.String(), "Nenhum equipamento")
}

func TestRunner_QuitAndResume(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	eng := newEngine(t)

	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("Clínica\nsair\n"), &out)),
		runner.WithStore(store),
		runner.WithSessionID("retomar"),
	)
	_, err := r.Run(ctx, eng)
	assert.ErrorIs(t, err, runner.ErrInterrupted)

	saved, err := store.Load(ctx, "retomar")
	require.NoError(t, err)
	require.False(t, saved.Done())
	assert.Equal(t, "Clínica", saved.Answers["perfil_tipo"])

	out.Reset()
	resumed := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("Sim\n"), &out)),
		runner.WithStore(store),
		runner.WithInitialState(saved),
	)
	state, err := resumed.Run(ctx, eng)
	require.NoError(t, err)
	assert.True(t, state.Done())
	assert.Contains(t, out.String(), "(2/2)")
}

func TestRunner_EOF(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &out)))

	_, err := r.Run(context.Background(), newEngine(t))
	assert.ErrorIs(t, err, runner.ErrInterrupted)
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("1\n"), &out)))
	_, err := r.Run(ctx, newEngine(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_JSONSession(t *testing.T) {
	var out bytes.Buffer
	input := "\"Profissional\"\n{\"value\": \"Não\"}\n"
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(input), &out)),
		runner.WithSessionID("json"),
	)

	_, err := r.Run(context.Background(), newEngine(t))
	require.NoError(t, err)

	var messages []runner.Message
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var m runner.Message
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		messages = append(messages, m)
	}

	require.Len(t, messages, 4)
	assert.Equal(t, runner.MessageQuestion, messages[0].Type)
	assert.Equal(t, "perfil_tipo", messages[0].Prompt.Question.ID)
	assert.Equal(t, runner.MessageProgress, messages[1].Type)
	assert.Equal(t, runner.MessageQuestion, messages[2].Type)
	assert.Equal(t, runner.MessageResult, messages[3].Type)
	assert.Empty(t, messages[3].Result.Ranking)
	assert.Equal(t, 2, messages[3].Result.Answered)
	assert.Equal(t, "json", messages[3].Result.SessionID)
}

func TestResolveAnswer(t *testing.T) {
	q := &domain.Question{Options: []string{"Sim", "Não"}}

	tests := []struct {
		raw  string
		want string
	}{
		{"1", "Sim"},
		{"2", "Não"},
		{"3", "3"},
		{"0", "0"},
		{"NÃO", "Não"},
		{" sim ", "Sim"},
		{"talvez", "talvez"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, runner.ResolveAnswer(q, tt.raw), tt.raw)
	}

	assert.Equal(t, "livre", runner.ResolveAnswer(&domain.Question{}, " livre "))
	assert.Equal(t, "x", runner.ResolveAnswer(nil, "x"))
}
