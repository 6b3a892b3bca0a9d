package domain

import "strings"

// Answers maps a question's context key to the raw answer recorded for it.
type Answers map[string]string

// BranchFunc decides a conditional redirection after a question is answered.
// It receives the immutable bank and every answer recorded so far (including
// the one just given) and returns the id of the target question, or "" for
// no redirection.
type BranchFunc func(bank *Bank, answers Answers) string

// Question represents a single step of the questionnaire.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// ContextKey is the key under which the answer is stored.
	// It may or may not correspond to a Relation Matrix signal.
	ContextKey string `json:"context_key" yaml:"context_key"`

	// Mandatory questions are always asked first, in their declared order.
	Mandatory bool `json:"mandatory" yaml:"mandatory"`

	// Rules is the declarative branch definition (as loaded from catalog files).
	Rules []BranchRule `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Branch overrides Rules when set. Not serializable.
	Branch BranchFunc `json:"-" yaml:"-"`
}

// Key returns the context key of the question, falling back to its id.
func (q Question) Key() string {
	if q.ContextKey != "" {
		return q.ContextKey
	}
	return q.ID
}

// Target evaluates the branch of the question against the given answers.
func (q Question) Target(bank *Bank, answers Answers) string {
	if q.Branch != nil {
		return q.Branch(bank, answers)
	}
	for _, r := range q.Rules {
		if r.Matches(answers) {
			return r.To
		}
	}
	return ""
}

// BranchRule is a declarative branch condition.
// The rule matches when the answer stored under When satisfies every
// configured predicate. A rule with no predicate matches any recorded answer.
type BranchRule struct {
	When    string   `json:"when" yaml:"when" mapstructure:"when"`
	Equals  string   `json:"equals,omitempty" yaml:"equals,omitempty" mapstructure:"equals"`
	In      []string `json:"in,omitempty" yaml:"in,omitempty" mapstructure:"in"`
	Prefix  string   `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`
	Present bool     `json:"present,omitempty" yaml:"present,omitempty" mapstructure:"present"`
	To      string   `json:"to" yaml:"to" mapstructure:"to"`
}

// Matches reports whether the rule holds for the given answers.
// Comparisons are case-insensitive and ignore surrounding whitespace.
func (r BranchRule) Matches(answers Answers) bool {
	raw, ok := answers[r.When]
	if !ok {
		return false
	}
	value := normalize(raw)

	if r.Equals != "" && value != normalize(r.Equals) {
		return false
	}
	if r.Prefix != "" && !strings.HasPrefix(value, normalize(r.Prefix)) {
		return false
	}
	if len(r.In) > 0 {
		found := false
		for _, candidate := range r.In {
			if value == normalize(candidate) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
