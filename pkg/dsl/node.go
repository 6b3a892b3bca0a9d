package dsl

import "github.com/aretw0/anamnesis/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	effects  []domain.Effect
	builder  *Builder
}

// Prompt sets the text shown to the respondent.
func (q *QuestionBuilder) Prompt(text string) *QuestionBuilder {
	q.question.Prompt = text
	return q
}

// Options sets the selectable answers.
func (q *QuestionBuilder) Options(options ...string) *QuestionBuilder {
	q.question.Options = options
	return q
}

// SaveTo sets the context key the answer is stored under.
func (q *QuestionBuilder) SaveTo(key string) *QuestionBuilder {
	q.question.ContextKey = key
	return q
}

// Mandatory marks the question as always asked first.
func (q *QuestionBuilder) Mandatory() *QuestionBuilder {
	q.question.Mandatory = true
	return q
}

// Branch jumps to target when this question's answer equals value.
func (q *QuestionBuilder) Branch(value, target string) *QuestionBuilder {
	return q.When(domain.BranchRule{When: q.question.Key(), Equals: value, To: target})
}

// When adds a declarative branch rule.
func (q *QuestionBuilder) When(rule domain.BranchRule) *QuestionBuilder {
	q.question.Rules = append(q.question.Rules, rule)
	return q
}

// BranchFunc sets a programmatic branch, overriding any rule.
func (q *QuestionBuilder) BranchFunc(fn domain.BranchFunc) *QuestionBuilder {
	q.question.Branch = fn
	return q
}

// Affects links this question's answer to a candidate.
func (q *QuestionBuilder) Affects(candidateID string, weight float64) *QuestionBuilder {
	q.effects = append(q.effects, domain.Effect{CandidateID: candidateID, Weight: weight})
	return q
}

// Build returns the underlying domain.Question.
func (q *QuestionBuilder) Build() domain.Question {
	return q.question
}

// CandidateBuilder provides a fluent API for configuring a candidate.
type CandidateBuilder struct {
	candidate domain.Candidate
}

// Describe sets the candidate description.
func (c *CandidateBuilder) Describe(text string) *CandidateBuilder {
	c.candidate.Description = text
	return c
}

// Attr adds a display attribute.
func (c *CandidateBuilder) Attr(key, value string) *CandidateBuilder {
	if c.candidate.Attributes == nil {
		c.candidate.Attributes = make(map[string]string)
	}
	c.candidate.Attributes[key] = value
	return c
}

// Disabled switches the candidate off at catalog level.
func (c *CandidateBuilder) Disabled() *CandidateBuilder {
	c.candidate.Enabled = false
	return c
}

// Inactive marks the candidate as unavailable.
func (c *CandidateBuilder) Inactive() *CandidateBuilder {
	c.candidate.Active = false
	return c
}

// Build returns the underlying domain.Candidate.
func (c *CandidateBuilder) Build() domain.Candidate {
	return c.candidate
}
