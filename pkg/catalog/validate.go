package catalog

import (
	"fmt"
	"math"
	"sort"
)

// Validate checks the structural integrity of a catalog.
//
// Problems that make the catalog unusable are returned as an *AggregateError.
// Problems the engine tolerates at runtime (dangling matrix candidates,
// signals no question produces, targets that can only ever point backwards)
// are returned as warnings.
func Validate(cat *Catalog) (warnings []string, err error) {
	if cat == nil || cat.Bank == nil {
		return nil, &AggregateError{Errors: []error{&ValidationError{Path: "catalog", Reason: "missing question bank"}}}
	}

	var errs []error
	fail := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)})
	}
	warn := func(path, format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf("%s: %s", path, fmt.Sprintf(format, args...)))
	}

	bank := cat.Bank
	keys := make(map[string]bool, bank.Len())
	for _, q := range bank.Questions() {
		keys[q.Key()] = true
	}

	for _, q := range bank.Questions() {
		path := fmt.Sprintf("questions[%s]", q.ID)
		if q.Prompt == "" {
			fail(path, "empty prompt")
		}
		for i, rule := range q.Rules {
			rpath := fmt.Sprintf("%s.branches[%d]", path, i)
			if rule.When == "" {
				fail(rpath, "missing 'when'")
			} else if !keys[rule.When] {
				warn(rpath, "condition on %q which no question answers", rule.When)
			}
			if rule.To == "" {
				fail(rpath, "missing 'to'")
				continue
			}
			target, ok := bank.Get(rule.To)
			if !ok {
				fail(rpath, "unknown target question %q", rule.To)
				continue
			}
			switch {
			case target.ID == q.ID:
				warn(rpath, "targets its own question; it will be ignored")
			case target.Mandatory && !q.Mandatory:
				warn(rpath, "targets mandatory question %q which is always asked earlier; it will be ignored", target.ID)
			case target.Mandatory && q.Mandatory && bank.Index(target.ID) < bank.Index(q.ID):
				warn(rpath, "targets earlier mandatory question %q; it will be ignored", target.ID)
			}
		}
	}

	known := make(map[string]bool, len(cat.Candidates))
	for i, c := range cat.Candidates {
		path := fmt.Sprintf("candidates[%d]", i)
		if c.ID == "" {
			fail(path, "missing ID")
			continue
		}
		if known[c.ID] {
			fail(path, "duplicate candidate ID: %s", c.ID)
			continue
		}
		known[c.ID] = true
	}

	signals := make([]string, 0, len(cat.Matrix))
	for signal := range cat.Matrix {
		signals = append(signals, signal)
	}
	sort.Strings(signals)
	for _, signal := range signals {
		path := fmt.Sprintf("relations[%s]", signal)
		if !keys[signal] {
			warn(path, "no question produces this signal")
		}
		for i, effect := range cat.Matrix[signal] {
			epath := fmt.Sprintf("%s[%d]", path, i)
			switch {
			case effect.CandidateID == "":
				warn(epath, "missing candidate; effect will be skipped")
			case !known[effect.CandidateID]:
				warn(epath, "unknown candidate %q", effect.CandidateID)
			}
			switch w := effect.Weight; {
			case math.IsNaN(w) || math.IsInf(w, 0):
				warn(epath, "non-finite weight %v is treated as zero", w)
			case w < 0:
				warn(epath, "negative weight %v is treated as zero", w)
			}
		}
	}

	if cat.Estimates != nil {
		for i, rule := range cat.Estimates.Rules {
			path := fmt.Sprintf("estimates.rules[%d]", i)
			if rule.Signal == "" {
				fail(path, "missing signal")
			} else if !keys[rule.Signal] {
				warn(path, "no question produces signal %q", rule.Signal)
			}
		}
	}

	if len(errs) > 0 {
		return warnings, &AggregateError{Errors: errs}
	}
	return warnings, nil
}
