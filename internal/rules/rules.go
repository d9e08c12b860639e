// Package rules provides the pre-retrieval shortcut rules: small talk,
// the ambiguous-admission clarification, and hard-coded procedures.
// Rules are an ordered list of (predicate, response) pairs evaluated in
// fixed priority order; the first match wins and bypasses all retrieval.
package rules

import "strings"

// Rule pairs a predicate over the normalized query with a canned response.
type Rule struct {
	Name     string
	Match    func(q string) bool
	Response string
}

// Engine evaluates rules in order against a normalized query.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine with the given rules, evaluated in order.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Apply returns the response of the first matching rule. q must already be
// lowercased and trimmed (see utils.NormalizeQuery).
func (e *Engine) Apply(q string) (string, bool) {
	for _, r := range e.rules {
		if r.Match(q) {
			return r.Response, true
		}
	}
	return "", false
}

// Rules returns the rule list, for coverage tests and diagnostics.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// equalsAny reports whether q equals any of the phrases.
func equalsAny(q string, phrases ...string) bool {
	for _, p := range phrases {
		if q == p {
			return true
		}
	}
	return false
}

// containsAny reports whether q contains any of the substrings.
func containsAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}
