package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/internal/config"
	"github.com/aretw0/anamnesis/internal/logging"
	"github.com/aretw0/anamnesis/pkg/adapters/file"
	"github.com/aretw0/anamnesis/pkg/persistence/middleware"
	"github.com/aretw0/anamnesis/pkg/ports"
	"github.com/aretw0/anamnesis/pkg/runner"
)

// createLogger configures the application logger.
// It writes to Stderr to keep Stdout free for the questionnaire (or JSON-RPC).
func createLogger(level string, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// OpenFileStore returns the session store under <dir>/.anamnesis/sessions.
func OpenFileStore(dir string) *file.Store {
	if dir == "" {
		dir = "."
	}
	return file.New(filepath.Join(dir, file.DefaultDir))
}

func isInterrupted(err error) bool {
	return errors.Is(err, runner.ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF)
}

// handleExecutionError swallows interruptions so they exit with status 0.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func stdoutIsTerminal() bool {
	return runner.IsTerminal(os.Stdout)
}

// protectStore wraps store with the PII masking and encryption layers
// configured in cfg. Masking runs first so only masked answers get encrypted.
// Patterns may not cover keys the engine reads back later in a session
// (branch conditions, estimator signals): sessions are reloaded from the
// store on every answer, so those would only ever see the mask.
func protectStore(store ports.SessionStore, cfg config.Config, engine *anamnesis.Engine, logger *slog.Logger) (ports.SessionStore, error) {
	var mws []middleware.Middleware

	if len(cfg.PIIKeyPatterns) > 0 {
		clash, err := middleware.SensitiveKeys(cfg.PIIKeyPatterns, engine.RecalledKeys())
		if err != nil {
			return nil, err
		}
		if len(clash) > 0 {
			return nil, fmt.Errorf("ANAMNESIS_PII_KEYS would mask answers the questionnaire reads back: %v", clash)
		}
		pii, err := middleware.NewPIIMiddleware(cfg.PIIKeyPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
		logger.Info("Masking personal answers at rest", "patterns", cfg.PIIKeyPatterns)
	}

	if cfg.EncryptionKey != "" {
		active, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("ANAMNESIS_ENCRYPTION_KEY: %w", err)
		}
		encCfg := middleware.EncryptionConfig{ActiveKey: active}
		for i, raw := range cfg.FallbackKeys {
			key, err := middleware.ParseKey(raw)
			if err != nil {
				return nil, fmt.Errorf("ANAMNESIS_ENCRYPTION_FALLBACK_KEYS[%d]: %w", i, err)
			}
			encCfg.FallbackKeys = append(encCfg.FallbackKeys, key)
		}
		enc, err := middleware.NewEncryptionMiddleware(encCfg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
		logger.Info("Encrypting sessions at rest", "fallback_keys", len(encCfg.FallbackKeys))
	}

	return middleware.Chain(store, mws...), nil
}
