package review

import (
	"strings"

	"github.com/dshills/vigil/internal/redact"
)

// Analyzer applies a rule set to unified diffs. It holds no mutable state and
// is safe for concurrent use.
type Analyzer struct {
	rules       *RuleSet
	redactValue bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRedaction controls whether secret-shaped content is masked in issue
// text before it can reach a report.
func WithRedaction(on bool) Option {
	return func(a *Analyzer) { a.redactValue = on }
}

// NewAnalyzer returns an analyzer over the given rule set. A nil rule set
// selects the built-in defaults.
func NewAnalyzer(rules *RuleSet, opts ...Option) *Analyzer {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	a := &Analyzer{rules: rules}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeDiff evaluates every added line against all three rule categories and
// every removed line against the removed-functionality checks, then derives
// suggestions and the risk score. Empty diff text yields an empty result, not
// an error. The path is attached to every issue as-is.
func (a *Analyzer) AnalyzeDiff(diff, path string) *AnalysisResult {
	res := NewAnalysisResult()
	lines := SplitDiff(diff)

	for i := range lines.Added {
		res.Security = append(res.Security, a.matchLine(a.rules.Security, lines.Added, i, path)...)
		res.Performance = append(res.Performance, a.matchLine(a.rules.Performance, lines.Added, i, path)...)
		res.Quality = append(res.Quality, a.matchLine(a.rules.Quality, lines.Added, i, path)...)
	}

	var removed []Suggestion
	for _, line := range lines.Removed {
		removed = append(removed, a.checkRemoved(line)...)
	}

	res.Suggestions = GenerateSuggestions(len(res.Security), len(res.Performance), len(res.Quality), removed)
	res.RiskScore = Score(res.Security, res.Performance, res.Quality)
	return res
}

// matchLine evaluates the added line at index i against each rule in the list.
// Matches are independent; one line may produce several issues.
func (a *Analyzer) matchLine(rules []Rule, added []DiffLine, i int, path string) []Issue {
	line := added[i]
	var issues []Issue
	for _, rule := range rules {
		if !rule.Pattern.MatchString(line.Text) {
			continue
		}
		if rule.Unless != nil && rule.Unless.MatchString(line.Text) {
			continue
		}
		if rule.Window > 0 && !runsOpenFor(added, i, rule.Window) {
			continue
		}
		issues = append(issues, a.newIssue(rule, line, path))
	}
	return issues
}

func (a *Analyzer) newIssue(rule Rule, line DiffLine, path string) Issue {
	content := strings.TrimSpace(line.Text)
	if a.redactValue {
		content = redact.Secrets(content)
	}
	return Issue{
		Type:        rule.Type,
		Severity:    rule.Severity,
		Description: rule.Description,
		Line:        line.Number,
		Content:     content,
		File:        path,
		Suggestion:  rule.Suggestion,
	}
}

func (a *Analyzer) checkRemoved(line DiffLine) []Suggestion {
	var out []Suggestion
	for _, chk := range a.rules.Removed {
		if !chk.Pattern.MatchString(line.Text) {
			continue
		}
		out = append(out, Suggestion{
			Type:        SuggestionRemovedFunctionality,
			Priority:    PriorityMedium,
			Description: "Possible " + chk.Description + ": " + strings.TrimSpace(line.Text),
			Action:      "Confirm the removed " + chk.Label + " is replaced or intentionally dropped",
		})
	}
	return out
}

// runsOpenFor reports whether the declaration at index i is followed by at
// least window added lines none of which contains a closing brace. Windows
// that extend past the end of the diff are treated as closed.
func runsOpenFor(added []DiffLine, i, window int) bool {
	if i+window >= len(added) {
		return false
	}
	for j := i + 1; j <= i+window; j++ {
		if strings.Contains(added[j].Text, "}") {
			return false
		}
	}
	return true
}

// Combine merges per-file results into one change-set result. Issue lists are
// concatenated, threshold suggestions re-derived from the combined counts,
// removed-functionality suggestions carried through, and the score recomputed.
func Combine(results ...*AnalysisResult) *AnalysisResult {
	out := NewAnalysisResult()
	var removed []Suggestion
	for _, r := range results {
		if r == nil {
			continue
		}
		out.Security = append(out.Security, r.Security...)
		out.Performance = append(out.Performance, r.Performance...)
		out.Quality = append(out.Quality, r.Quality...)
		for _, s := range r.Suggestions {
			if s.Type == SuggestionRemovedFunctionality {
				removed = append(removed, s)
			}
		}
	}
	out.Suggestions = GenerateSuggestions(len(out.Security), len(out.Performance), len(out.Quality), removed)
	out.RiskScore = Score(out.Security, out.Performance, out.Quality)
	return out
}
