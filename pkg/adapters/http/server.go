package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/runner"
	"github.com/aretw0/anamnesis/pkg/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the session manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithGatherer serves /metrics from the given registry instead of the default one.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// AnswerRequest is the body of POST /sessions/{id}/answers.
type AnswerRequest struct {
	ContextKey string `json:"context_key"`
	Value      string `json:"value"`
}

// StartRequest is the optional body of POST /sessions.
type StartRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// SessionResponse is the session view returned by most endpoints.
type SessionResponse struct {
	State    *domain.State           `json:"state"`
	Question *domain.Question        `json:"question,omitempty"`
	Ranking  []domain.Recommendation `json:"ranking"`
	Estimate *domain.Estimate        `json:"estimate,omitempty"`
	Complete bool                    `json:"complete"`
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: manager,
		Streams:  NewStreamManager(),
		Logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/questions", s.GetQuestions)
	r.Handle("/metrics", s.metricsHandler())

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.StartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/question", s.GetQuestion)
			r.Post("/answers", s.SubmitAnswer)
			r.Get("/ranking", s.GetRanking)
			r.Post("/reset", s.ResetSession)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return r
}

func (s *Server) metricsHandler() http.Handler {
	if s.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "anamnesis-http",
		"version": strings.TrimSpace(anamnesis.Version),
	})
}

// GetQuestions handles the GET /questions request.
func (s *Server) GetQuestions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.Engine().Inspect())
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, "list sessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// StartSession handles the POST /sessions request.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("StartSession: Invalid request body", "err", err)
			return
		}
	}
	if body.SessionID != "" {
		clean, err := runner.SanitizeInput(body.SessionID)
		if err != nil || strings.ContainsAny(clean, "/\\ ") {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}
		body.SessionID = clean
	}

	state, err := s.Sessions.Start(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, r, "start session", err)
		return
	}
	s.Streams.Broadcast(state.SessionID, domain.Diff(nil, state))
	s.writeJSON(w, http.StatusCreated, s.view(state))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "load session", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view(state))
}

// GetQuestion handles the GET /sessions/{id}/question request.
// A completed session answers 204 No Content.
func (s *Server) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, _, err := s.Sessions.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "current question", err)
		return
	}
	if q == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

// SubmitAnswer handles the POST /sessions/{id}/answers request.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SubmitAnswer: Invalid request body", "err", err, "session_id", id)
		return
	}

	value, err := runner.SanitizeInput(body.Value)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("SubmitAnswer: Input rejected", "err", err, "size", len(body.Value), "session_id", id)
		return
	}
	key := strings.TrimSpace(body.ContextKey)

	before, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "load session", err)
		return
	}
	if key == "" {
		// Default to the question being presented.
		if q := s.Sessions.Engine().Current(before); q != nil {
			key = q.Key()
		}
	}
	if key == "" {
		http.Error(w, "context_key is required", http.StatusBadRequest)
		return
	}

	next, err := s.Sessions.Submit(r.Context(), id, key, value)
	if err != nil {
		s.writeError(w, r, "submit answer", err)
		return
	}

	if diff := domain.Diff(before, next); diff != nil {
		s.Logger.Debug("SubmitAnswer: Diff calculated", "session_id", id, "diff", diff)
		s.Streams.Broadcast(id, diff)
	}
	s.writeJSON(w, http.StatusOK, s.view(next))
}

// GetRanking handles the GET /sessions/{id}/ranking request.
func (s *Server) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := s.Sessions.Ranking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "ranking", err)
		return
	}
	if ranking == nil {
		ranking = []domain.Recommendation{}
	}
	s.writeJSON(w, http.StatusOK, ranking)
}

// ResetSession handles the POST /sessions/{id}/reset request.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "reset session", err)
		return
	}
	s.Streams.Broadcast(state.SessionID, domain.Diff(nil, state))
	s.writeJSON(w, http.StatusOK, s.view(state))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) view(state *domain.State) SessionResponse {
	engine := s.Sessions.Engine()
	resp := SessionResponse{
		State:    state,
		Question: engine.Current(state),
		Ranking:  engine.Rank(state),
		Complete: state.Done(),
	}
	if resp.Ranking == nil {
		resp.Ranking = []domain.Recommendation{}
	}
	if est, ok := engine.Estimate(state); ok {
		resp.Estimate = &est
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionCompleted):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err, "session_id", chi.URLParam(r, "id"))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
