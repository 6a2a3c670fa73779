package review

import "regexp"

// Rule is a declarative text-pattern check applied to added diff lines.
type Rule struct {
	Type        string
	Category    Category
	Severity    Severity
	Pattern     *regexp.Regexp
	Description string
	Suggestion  string

	// Unless suppresses the match when it also matches the line. Used for
	// rules of the form "X without Y on the same line".
	Unless *regexp.Regexp

	// Window > 0 marks a declaration-anchored rule: Pattern matches the
	// opening line and the rule fires only when no closing brace appears
	// within the next Window added lines.
	Window int
}

// RemovedCheck flags a removed line that carried important functionality.
type RemovedCheck struct {
	Label       string
	Pattern     *regexp.Regexp
	Description string
}

// RuleSet is the full collection of checks used by an analyzer. It is built
// once at startup and shared read-only across analyses.
type RuleSet struct {
	Security    []Rule
	Performance []Rule
	Quality     []Rule
	Removed     []RemovedCheck
}

// Lookup returns the rule with the given type id, or nil.
func (rs *RuleSet) Lookup(typ string) *Rule {
	for _, list := range [][]Rule{rs.Security, rs.Performance, rs.Quality} {
		for i := range list {
			if list[i].Type == typ {
				return &list[i]
			}
		}
	}
	return nil
}
