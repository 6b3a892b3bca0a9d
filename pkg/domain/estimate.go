package domain

// Estimate is a secondary, display-only attribute derived from answers
// (e.g. an approximate age bracket). It never affects scoring.
type Estimate struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Signal    string `json:"signal"`
}

// EstimateRule maps an answered signal to an estimated value.
type EstimateRule struct {
	Signal string   `json:"signal" yaml:"signal" mapstructure:"signal"`
	Match  []string `json:"match,omitempty" yaml:"match,omitempty" mapstructure:"match"`
	// Value is the produced value. Empty means "use the answer itself".
	Value string `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}
