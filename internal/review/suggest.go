package review

import "fmt"

// Suggestion type identifiers.
const (
	SuggestionSecurityReview       = "security_review"
	SuggestionPerformanceTesting   = "performance_testing"
	SuggestionCodeRefactoring      = "code_refactoring"
	SuggestionRemovedFunctionality = "removed_functionality"
)

// GenerateSuggestions derives top-level recommendations from the category
// issue counts. The thresholds are evaluated independently; none excludes
// another. Removed-functionality suggestions from the diff scan pass through
// unchanged.
func GenerateSuggestions(security, performance, quality int, removed []Suggestion) []Suggestion {
	out := []Suggestion{}

	if security > 0 {
		out = append(out, Suggestion{
			Type:        SuggestionSecurityReview,
			Priority:    PriorityHigh,
			Description: fmt.Sprintf("%d security issue(s) detected in this change", security),
			Action:      "Request a security-focused review before merging",
		})
	}
	if performance > 2 {
		out = append(out, Suggestion{
			Type:        SuggestionPerformanceTesting,
			Priority:    PriorityMedium,
			Description: fmt.Sprintf("%d performance issue(s) detected in this change", performance),
			Action:      "Run performance tests against the affected paths",
		})
	}
	if quality > 5 {
		out = append(out, Suggestion{
			Type:        SuggestionCodeRefactoring,
			Priority:    PriorityLow,
			Description: fmt.Sprintf("%d quality issue(s) detected in this change", quality),
			Action:      "Plan a refactoring pass over the flagged areas",
		})
	}

	out = append(out, removed...)
	return out
}
