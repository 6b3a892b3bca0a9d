package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// document is the on-disk shape of a catalog.
// It uses "mapstructure" tags so loosely typed YAML (e.g. weights written as
// strings) decodes consistently.
type document struct {
	Name           string                     `mapstructure:"name"`
	NegativeTokens []string                   `mapstructure:"negative_tokens"`
	Questions      []questionDocument         `mapstructure:"questions"`
	Candidates     []candidateDocument        `mapstructure:"candidates"`
	Relations      map[string][]domain.Effect `mapstructure:"relations"`
	Estimates      *Estimates                 `mapstructure:"estimates"`
}

type questionDocument struct {
	ID         string              `mapstructure:"id"`
	Prompt     string              `mapstructure:"prompt"`
	Options    []string            `mapstructure:"options"`
	ContextKey string              `mapstructure:"context_key"`
	Mandatory  bool                `mapstructure:"mandatory"`
	Branches   []domain.BranchRule `mapstructure:"branches"`
}

type candidateDocument struct {
	ID          string            `mapstructure:"id"`
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	Attributes  map[string]string `mapstructure:"attributes"`
	Enabled     *bool             `mapstructure:"enabled"`
	Active      *bool             `mapstructure:"active"`
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Default returns the built-in sample catalog of an aesthetic clinic.
func Default() *Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return cat
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		questions = append(questions, domain.Question{
			ID:         q.ID,
			Prompt:     q.Prompt,
			Options:    q.Options,
			ContextKey: q.ContextKey,
			Mandatory:  q.Mandatory,
			Rules:      q.Branches,
		})
	}

	candidates := make([]domain.Candidate, 0, len(doc.Candidates))
	for _, c := range doc.Candidates {
		candidates = append(candidates, domain.Candidate{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Attributes:  c.Attributes,
			Enabled:     boolOr(c.Enabled, true),
			Active:      boolOr(c.Active, true),
		})
	}

	cat, err := New(doc.Name, questions, candidates, domain.Matrix(doc.Relations))
	if err != nil {
		return nil, err
	}
	cat.Estimates = doc.Estimates
	cat.NegativeTokens = doc.NegativeTokens
	return cat, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
