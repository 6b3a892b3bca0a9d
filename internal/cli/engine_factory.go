package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/anamnesis"
	"github.com/aretw0/anamnesis/pkg/catalog"
	"github.com/aretw0/anamnesis/pkg/domain"
)

// EngineOptions selects the catalog and randomness of an engine.
type EngineOptions struct {
	// CatalogPath is a YAML catalog; empty uses the embedded clinic catalog.
	CatalogPath string
	// Seed makes question order reproducible when HasSeed is set.
	Seed    uint64
	HasSeed bool
	Hooks   []domain.LifecycleHooks
}

// loadCatalog reads the configured catalog and rejects invalid ones.
// Validation warnings are logged, never fatal.
func loadCatalog(path string, logger *slog.Logger) (*catalog.Catalog, error) {
	var cat *catalog.Catalog
	if path == "" {
		cat = catalog.Default()
	} else {
		var err error
		cat, err = catalog.Load(path)
		if err != nil {
			return nil, err
		}
	}

	warnings, err := catalog.Validate(cat)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("catalog warning", "catalog", cat.Name, "warning", w)
	}
	return cat, nil
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(opts EngineOptions, logger *slog.Logger) (*anamnesis.Engine, error) {
	cat, err := loadCatalog(opts.CatalogPath, logger)
	if err != nil {
		return nil, err
	}

	engineOpts := []anamnesis.Option{anamnesis.WithLogger(logger)}
	if opts.HasSeed {
		engineOpts = append(engineOpts, anamnesis.WithSeed(opts.Seed))
	}
	if len(opts.Hooks) > 0 {
		engineOpts = append(engineOpts, anamnesis.WithLifecycleHooks(domain.ChainHooks(opts.Hooks...)))
	}

	engine, err := anamnesis.New(cat, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
