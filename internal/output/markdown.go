package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/vigil/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	sum := report.Summary

	// Heading
	fmt.Fprintf(w, "## Vigil Code Review\n\n")
	if report.PR.ID != 0 || report.PR.Title != "" {
		fmt.Fprintf(w, "**#%d — %s**", report.PR.ID, report.PR.Title)
		if report.PR.SourceBranch != "" && report.PR.TargetBranch != "" {
			fmt.Fprintf(w, " (`%s` → `%s`)", report.PR.SourceBranch, report.PR.TargetBranch)
		}
		fmt.Fprintf(w, "\n\n")
	}

	fmt.Fprintf(w, "%s **%s risk** — score %d/10\n\n", riskEmoji(sum.RiskLevel), sum.RiskLevel, sum.RiskScore)

	// Change summary table
	fmt.Fprintf(w, "| Files | Added | Deleted | Edited | Issues |\n")
	fmt.Fprintf(w, "|-------|-------|---------|--------|--------|\n")
	fmt.Fprintf(w, "| %d | %d | %d | %d | %d |\n\n",
		sum.Files, sum.Added, sum.Deleted, sum.Edited, sum.TotalIssues)

	if len(report.RiskFactors) > 0 {
		fmt.Fprintf(w, "### Risk Factors\n\n")
		for _, rf := range report.RiskFactors {
			fmt.Fprintf(w, "- **%s** (%s)", rf.Type, rf.Severity)
			if rf.File != "" {
				fmt.Fprintf(w, " — `%s`", rf.File)
			}
			if rf.Description != "" {
				fmt.Fprintf(w, ": %s", rf.Description)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if sum.TotalIssues == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
	} else {
		m.writeCategory(w, "Security", report.Analysis.Security)
		m.writeCategory(w, "Performance", report.Analysis.Performance)
		m.writeCategory(w, "Quality", report.Analysis.Quality)
	}

	if report.Analysis != nil && len(report.Analysis.Suggestions) > 0 {
		fmt.Fprintf(w, "### Suggestions\n\n")
		for _, s := range sortedSuggestions(report.Analysis.Suggestions) {
			fmt.Fprintf(w, "- **[%s] %s** — %s\n", s.Priority, s.Type, s.Description)
			if s.Action != "" {
				fmt.Fprintf(w, "  - %s\n", s.Action)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "---\n*Generated by %s %s at %s (run %s)*\n",
		report.Tool, report.Version,
		report.GeneratedAt.Format("2006-01-02 15:04:05 MST"), report.RunID)

	return nil
}

func (m *MarkdownWriter) writeCategory(w io.Writer, label string, issues []review.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "### %s (%d)\n\n", label, len(issues))

	for _, g := range groupByType(issues) {
		first := g.Issues[0]
		fmt.Fprintf(w, "<details>\n<summary><b>%s</b> — %s (%d)</summary>\n\n",
			g.Type, strings.ToUpper(string(first.Severity)), len(g.Issues))
		if first.Description != "" {
			fmt.Fprintf(w, "%s\n\n", first.Description)
		}
		for _, is := range g.Issues {
			fmt.Fprintf(w, "- `%s`", is.File)
			if is.Line > 0 {
				fmt.Fprintf(w, ":%d", is.Line)
			}
			if is.Content != "" {
				fmt.Fprintf(w, " — `%s`", mdEscapeBackticks(is.Content))
			}
			fmt.Fprintln(w)
		}
		if first.Suggestion != "" {
			fmt.Fprintf(w, "\n> %s\n", first.Suggestion)
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}
}

// mdEscapeBackticks keeps inline code spans intact when the flagged line
// itself contains backticks.
func mdEscapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
