package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/internal/presentation/tui"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/observability"
	"github.com/aretw0/anamnesis/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Engine    EngineOptions
	Dir       string
	SessionID string
	Fresh     bool
	JSON      bool
	Debug     bool
	LogLevel  string

	// In and Out default to Stdin and Stdout.
	In  io.Reader
	Out io.Writer
}

// RunSession executes a single interactive session.
// With a SessionID, progress is saved to the file store after every answer
// and an unfinished session is resumed on the next run.
func RunSession(ctx context.Context, opts RunOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	quiet := opts.JSON

	logger, err := createLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	if opts.Debug {
		opts.Engine.Hooks = append(opts.Engine.Hooks, observability.LoggingHooks(logger))
	}

	engine, err := createEngine(opts.Engine, logger)
	if err != nil {
		return err
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		var textOpts []runner.TextHandlerOption
		if opts.Out == nil && stdoutIsTerminal() {
			tui.PrintBanner(out, anamnesis.Version)
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(in, out, textOpts...)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
	}

	if opts.SessionID != "" {
		store := OpenFileStore(opts.Dir)
		if opts.Fresh {
			if err := store.Delete(ctx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}

		state, err := store.Load(ctx, opts.SessionID)
		switch {
		case err == nil && !state.Done():
			logger.Info("Session Resumed", "session_id", opts.SessionID, "answered", len(state.History))
			if !quiet {
				printSystemMessage(out, "Retomando a sessão '%s' (%d respondidas).", opts.SessionID, len(state.History))
			}
			runnerOpts = append(runnerOpts, runner.WithInitialState(state))
		case err == nil:
			logger.Info("Session already complete, starting over", "session_id", opts.SessionID)
		case !errors.Is(err, domain.ErrSessionNotFound):
			return fmt.Errorf("failed to load session: %w", err)
		}
		runnerOpts = append(runnerOpts, runner.WithSessionID(opts.SessionID), runner.WithStore(store))
	}

	sm := runner.NewSignalManager(ctx)
	defer sm.Stop()

	r := runner.NewRunner(runnerOpts...)
	final, runErr := r.Run(sm.Context(), engine)
	if runErr != nil && !errors.Is(runErr, runner.ErrInterrupted) {
		sm.CheckRace()
	}

	if isInterrupted(runErr) && !quiet {
		answered := 0
		if final != nil {
			answered = len(final.History)
		}
		if sm.Interrupted() {
			fmt.Fprintln(out, "[CTRL+C]")
		}
		printSystemMessage(out, "Sessão interrompida após %d respostas.", answered)
	}
	return handleExecutionError(runErr)
}
