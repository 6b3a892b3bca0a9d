package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// Message types emitted by JSONHandler.
const (
	MessageQuestion = "question"
	MessageProgress = "progress"
	MessageResult   = "result"
	MessageSystem   = "system"
)

// Message is one JSON line written by JSONHandler.
type Message struct {
	Type    string                  `json:"type"`
	Prompt  *Prompt                 `json:"prompt,omitempty"`
	Ranking []domain.Recommendation `json:"ranking,omitempty"`
	Result  *Result                 `json:"result,omitempty"`
	Text    string                  `json:"text,omitempty"`
}

// JSONHandler implements IOHandler for structured JSON-Lines communication.
// Input lines may be a JSON string, an object {"value": "..."}, or raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Ask(ctx context.Context, p Prompt) error {
	return h.Encoder.Encode(Message{Type: MessageQuestion, Prompt: &p})
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return SanitizeInput(obj.Value)
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) Progress(ctx context.Context, top []domain.Recommendation) error {
	return h.Encoder.Encode(Message{Type: MessageProgress, Ranking: top})
}

func (h *JSONHandler) Finish(ctx context.Context, r Result) error {
	return h.Encoder.Encode(Message{Type: MessageResult, Result: &r})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageSystem, Text: msg})
}
