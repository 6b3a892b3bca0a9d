package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/anamnesis/pkg/domain"
	"golang.org/x/term"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	interactive bool // true when reading from a terminal, where EOF may come from a signal
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		interactive: IsTerminal(r),
		Reader:      bufio.NewReader(r),
		Writer:      w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				if h.interactive {
					// A terminal may report EOF on Ctrl+C; keep the stream open.
					h.inputChan <- inputResult{err: io.EOF}
					time.Sleep(50 * time.Millisecond)
					continue
				}
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) render(markdown string) string {
	if h.Renderer == nil {
		return markdown
	}
	out, err := h.Renderer(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// Ask prints the question as markdown with numbered options.
func (h *TextHandler) Ask(ctx context.Context, p Prompt) error {
	var b strings.Builder
	fmt.Fprintf(&b, "### (%d/%d) %s\n", p.Position, p.Total, p.Question.Prompt)
	if len(p.Question.Options) > 0 {
		b.WriteString("\n")
		for i, opt := range p.Question.Options {
			fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(b.String())))
	return err
}

// Input reads one sanitized line, re-prompting on invalid input.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Erro: %v. Tente novamente.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// Progress prints a one-line ranking preview.
func (h *TextHandler) Progress(ctx context.Context, top []domain.Recommendation) error {
	if len(top) == 0 {
		_, err := fmt.Fprintln(h.Writer, "Top: (nenhum candidato restante)")
		return err
	}
	parts := make([]string, len(top))
	for i, r := range top {
		parts[i] = fmt.Sprintf("%d. %s (%s)", i+1, r.Name, formatScore(r.Score))
	}
	_, err := fmt.Fprintf(h.Writer, "Top: %s\n", strings.Join(parts, " | "))
	return err
}

// Finish prints the full ranking as a markdown table.
func (h *TextHandler) Finish(ctx context.Context, r Result) error {
	var b strings.Builder
	b.WriteString("## Recomendações\n\n")
	if len(r.Ranking) == 0 {
		b.WriteString("Nenhum equipamento atende às respostas informadas.\n")
	} else {
		b.WriteString("| # | Equipamento | Pontuação |\n|---|---|---|\n")
		for i, rec := range r.Ranking {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, rec.Name, formatScore(rec.Score))
		}
	}
	if r.Estimate != nil {
		fmt.Fprintf(&b, "\n_%s: %s_\n", r.Estimate.Attribute, r.Estimate.Value)
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(b.String())))
	return err
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[Sistema] %s\n", msg)
	return err
}

func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
