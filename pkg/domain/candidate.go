package domain

// Candidate is a recommendable catalog item.
type Candidate struct {
	ID          string            `json:"id" yaml:"id" mapstructure:"id"`
	Name        string            `json:"name" yaml:"name" mapstructure:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" mapstructure:"attributes"`

	// Enabled is the catalog-level switch.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// Active is the availability flag.
	Active bool `json:"active" yaml:"active" mapstructure:"active"`
}

// Eligible reports whether the candidate may surface in a ranking at all.
func (c Candidate) Eligible() bool {
	return c.Enabled && c.Active
}

// Recommendation is a ranked candidate as exposed to callers.
type Recommendation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
