package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/pkg/adapters/memory"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/dsl"
	"github.com/aretw0/anamnesis/pkg/observability"
	"github.com/aretw0/anamnesis/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *session.Manager) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	b := dsl.New("http")
	b.Question("perfil_tipo").Prompt("Perfil?").Mandatory()
	b.Question("flacidez_facial").Prompt("Flacidez?").Options("Sim", "Não").Affects("hipro", 10)
	b.Candidate("hipro", "Hipro")

	eng, err := anamnesis.New(b.MustBuild(),
		anamnesis.WithSeed(1),
		anamnesis.WithLogger(logging.NewNop()),
		anamnesis.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	mgr := session.NewManager(eng, memory.NewStore(), session.WithLogger(logging.NewNop()))
	opts = append([]Option{WithLogger(logging.NewNop()), WithGatherer(reg)}, opts...)
	return NewHandler(mgr, opts...), mgr
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestSessionLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", StartRequest{SessionID: "s1"})
	require.Equal(t, http.StatusCreated, w.Code)
	started := decode[SessionResponse](t, w)
	assert.Equal(t, "s1", started.State.SessionID)
	require.NotNil(t, started.Question)
	assert.Equal(t, "perfil_tipo", started.Question.ID)
	assert.False(t, started.Complete)

	w = do(t, h, http.MethodGet, "/sessions/s1/question", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "perfil_tipo", decode[domain.Question](t, w).ID)

	// Empty context_key answers the current question.
	w = do(t, h, http.MethodPost, "/sessions/s1/answers", AnswerRequest{Value: "profissional"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "profissional", decode[SessionResponse](t, w).State.Answers["perfil_tipo"])

	w = do(t, h, http.MethodPost, "/sessions/s1/answers", AnswerRequest{ContextKey: "flacidez_facial", Value: "Sim"})
	require.Equal(t, http.StatusOK, w.Code)
	done := decode[SessionResponse](t, w)
	assert.True(t, done.Complete)
	assert.Nil(t, done.Question)

	w = do(t, h, http.MethodGet, "/sessions/s1/question", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/s1/ranking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.Recommendation{{ID: "hipro", Name: "Hipro", Score: 10}}, decode[[]domain.Recommendation](t, w))

	w = do(t, h, http.MethodPost, "/sessions/s1/answers", AnswerRequest{ContextKey: "flacidez_facial", Value: "Não"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/sessions/s1/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reset := decode[SessionResponse](t, w)
	assert.False(t, reset.Complete)
	assert.Empty(t, reset.State.Answers)
	assert.Equal(t, []domain.Recommendation{{ID: "hipro", Name: "Hipro", Score: 0}}, reset.Ranking)

	w = do(t, h, http.MethodDelete, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartSession_GeneratedID(t *testing.T) {
	h, mgr := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[SessionResponse](t, w).State.SessionID
	assert.NotEmpty(t, id)

	ids, err := mgr.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	w = do(t, h, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string][]string{"sessions": {id}}, decode[map[string][]string](t, w))
}

func TestBadRequests(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", StartRequest{SessionID: "s"}).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed answer", http.MethodPost, "/sessions/s/answers", "{", http.StatusBadRequest},
		{"malformed start", http.MethodPost, "/sessions", "{", http.StatusBadRequest},
		{"unsafe session id", http.MethodPost, "/sessions", `{"session_id":"../x"}`, http.StatusBadRequest},
		{"oversized value", http.MethodPost, "/sessions/s/answers", `{"context_key":"perfil_tipo","value":"` + strings.Repeat("a", 5000) + `"}`, http.StatusBadRequest},
		{"unknown session question", http.MethodGet, "/sessions/nope/question", "", http.StatusNotFound},
		{"unknown session answer", http.MethodPost, "/sessions/nope/answers", `{"value":"x"}`, http.StatusNotFound},
		{"unknown session reset", http.MethodPost, "/sessions/nope/reset", "", http.StatusNotFound},
		{"unknown session ranking", http.MethodGet, "/sessions/nope/ranking", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestQuestionsHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	questions := decode[[]domain.Question](t, w)
	require.Len(t, questions, 2)
	assert.Equal(t, "perfil_tipo", questions[0].ID)

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", nil)
	assert.Contains(t, w.Body.String(), anamnesis.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", nil).Code)

	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anamnesis_sessions_started_total 1")
}

func TestCORS(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", StartRequest{SessionID: "ev"}).Code)

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/ev/events?watch=answers", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	w := do(t, h, http.MethodPost, "/sessions/ev/answers", AnswerRequest{ContextKey: "perfil_tipo", Value: "paciente"})
	require.Equal(t, http.StatusOK, w.Code)

	var data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
		}
	}

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, "ev", diff.SessionID)
	assert.Equal(t, map[string]string{"perfil_tipo": "paciente"}, diff.Answers)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("x")
	assert.Equal(t, 1, sm.Subscribers("x"))

	sm.Broadcast("x", nil)
	sm.Broadcast("y", &domain.StateDiff{SessionID: "y"})
	sm.Broadcast("x", &domain.StateDiff{SessionID: "x", History: []string{"q"}})

	msg := <-ch
	assert.JSONEq(t, `{"session_id":"x","history":["q"]}`, msg)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("x"))
	_, open := <-ch
	assert.False(t, open)
}

func TestMatchesWatch(t *testing.T) {
	msg := `{"session_id":"x","scores":{"a":1}}`
	assert.True(t, matchesWatch(msg, []string{"scores"}))
	assert.False(t, matchesWatch(msg, []string{"answers", "completed"}))
	assert.True(t, matchesWatch("not json", []string{"answers"}))
}
