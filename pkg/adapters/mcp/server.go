package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/runner"
	"github.com/aretw0/anamnesis/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// QuestionsURI is the resource exposing the question bank.
const QuestionsURI = "anamnesis://questions"

// SessionView is the unified tool response across the session tools.
type SessionView struct {
	SessionID string                  `json:"session_id" jsonschema_description:"Identifier to pass to the other tools"`
	Question  *domain.Question        `json:"question,omitempty" jsonschema_description:"Question to ask next; absent when the session is complete"`
	Ranking   []domain.Recommendation `json:"ranking" jsonschema_description:"Candidates ranked by relevance, best first"`
	Estimate  *domain.Estimate        `json:"estimate,omitempty" jsonschema_description:"Auxiliary estimated attribute, when derivable"`
	Answered  int                     `json:"answered" jsonschema_description:"Number of questions answered so far"`
	Complete  bool                    `json:"complete" jsonschema_description:"Indicates that no question is left"`
}

// SessionArgs identifies a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// AnswerArgs carries an answer for the current (or a named) question.
type AnswerArgs struct {
	SessionID  string `json:"session_id"`
	ContextKey string `json:"context_key,omitempty"`
	Value      string `json:"value"`
}

// Server wraps the session manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(manager *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sessions:  manager,
		logger:    logger,
		mcpServer: server.NewMCPServer("anamnesis-mcp", strings.TrimSpace(anamnesis.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the protocol over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a diagnostic session. Returns the first question to ask."),
		mcp.WithString("session_id", mcp.Description("Identifier to use (optional, generated when omitted)")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("current_question",
		mcp.WithDescription("Get the question to ask next in a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleCurrent))

	s.mcpServer.AddTool(mcp.NewTool("submit_answer",
		mcp.WithDescription("Record the answer to the current question and advance the session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Answer given by the user (one of the options or free text)")),
		mcp.WithString("context_key", mcp.Description("Context key to store the answer under (defaults to the current question)")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("get_ranking",
		mcp.WithDescription("Get the ranked recommendation list of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleCurrent))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Discard every answer of a session and start over with a new question order."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleReset))
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionView, error) {
	state, err := s.sessions.Start(ctx, strings.TrimSpace(args.SessionID))
	if err != nil {
		return SessionView{}, fmt.Errorf("start failed: %w", err)
	}
	return s.view(state), nil
}

func (s *Server) handleCurrent(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionView, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return SessionView{}, fmt.Errorf("load failed: %w", err)
	}
	return s.view(state), nil
}

func (s *Server) handleSubmit(ctx context.Context, _ mcp.CallToolRequest, args AnswerArgs) (SessionView, error) {
	clean, err := runner.SanitizeInput(args.Value)
	if err != nil {
		s.logger.Warn("MCP Submit: Input rejected", "err", err, "size", len(args.Value))
		return SessionView{}, fmt.Errorf("input rejected: %w", err)
	}

	key := strings.TrimSpace(args.ContextKey)
	if key == "" {
		q, _, err := s.sessions.Current(ctx, args.SessionID)
		if err != nil {
			return SessionView{}, fmt.Errorf("load failed: %w", err)
		}
		if q == nil {
			return SessionView{}, domain.ErrSessionCompleted
		}
		key = q.Key()
	}

	next, err := s.sessions.Submit(ctx, args.SessionID, key, clean)
	if errors.Is(err, domain.ErrSessionCompleted) {
		return SessionView{}, err
	}
	if err != nil {
		return SessionView{}, fmt.Errorf("submit failed: %w", err)
	}
	return s.view(next), nil
}

func (s *Server) handleReset(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionView, error) {
	state, err := s.sessions.Reset(ctx, args.SessionID)
	if err != nil {
		return SessionView{}, fmt.Errorf("reset failed: %w", err)
	}
	return s.view(state), nil
}

func (s *Server) view(state *domain.State) SessionView {
	engine := s.sessions.Engine()
	v := SessionView{
		SessionID: state.SessionID,
		Question:  engine.Current(state),
		Ranking:   engine.Rank(state),
		Answered:  len(state.History),
		Complete:  state.Done(),
	}
	if v.Ranking == nil {
		v.Ranking = []domain.Recommendation{}
	}
	if est, ok := engine.Estimate(state); ok {
		v.Estimate = &est
	}
	return v
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(QuestionsURI, "Question Bank",
		mcp.WithResourceDescription("Every question of the questionnaire in declared order"),
		mcp.WithMIMEType("application/json"),
	), s.readQuestions)
}

func (s *Server) readQuestions(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.sessions.Engine().Inspect())
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      QuestionsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
