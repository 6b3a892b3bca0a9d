package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/internal/presentation/graph"
	"github.com/aretw0/anamnesis/pkg/domain"
)

// InspectSession writes a saved session as indented JSON, followed by its
// ranking when the catalog can still be loaded.
func InspectSession(ctx context.Context, w io.Writer, dir, sessionID string, engine EngineOptions) error {
	state, err := OpenFileStore(dir).Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling state: %w", err)
	}
	fmt.Fprintln(w, string(data))

	eng, err := createEngine(engine, logging.NewNop())
	if err != nil {
		return nil
	}
	fmt.Fprintln(w)
	for i, rec := range eng.Rank(state) {
		fmt.Fprintf(w, "%d. %s (%g)\n", i+1, rec.Name, rec.Score)
	}
	return nil
}

// RemoveSessions deletes sessions, reporting each outcome. It fails when any removal failed.
func RemoveSessions(ctx context.Context, w io.Writer, dir string, ids []string) error {
	store := OpenFileStore(dir)
	failed := 0
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d session(s) could not be removed", failed)
	}
	return nil
}

// ListSessions prints the ids of the saved sessions.
func ListSessions(ctx context.Context, w io.Writer, dir string) error {
	ids, err := OpenFileStore(dir).List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}
	fmt.Fprintln(w, "Active Sessions:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// ValidateCatalog loads and validates a catalog, printing warnings.
func ValidateCatalog(w io.Writer, path string) error {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cat, err := loadCatalog(path, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Catalog '%s' is valid: %d questions, %d candidates.\n", cat.Name, cat.Bank.Len(), len(cat.Candidates))
	return nil
}

// RenderGraph writes the Mermaid diagram of a catalog. With a session id,
// the saved session is overlaid (answered and current questions).
func RenderGraph(ctx context.Context, w io.Writer, dir, sessionID string, relations bool, engine EngineOptions) error {
	cat, err := loadCatalog(engine.CatalogPath, logging.NewNop())
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if sessionID != "" {
		state, err := OpenFileStore(dir).Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}
		overlay = overlayFor(state)
	}

	fmt.Fprint(w, graph.GenerateMermaid(cat.Bank.Questions(), graph.Options{
		Relations: relations,
		Matrix:    cat.Matrix,
	}, overlay))
	return nil
}

func overlayFor(state *domain.State) *graph.GraphOverlay {
	overlay := &graph.GraphOverlay{Answered: state.History}
	if !state.Done() {
		overlay.Current = state.Sequence[state.CurrentIndex]
	}
	return overlay
}
