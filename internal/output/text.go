package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/vigil/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	sum := report.Summary

	if report.PR.ID != 0 || report.PR.Title != "" {
		ew.printf("Vigil Code Review — PR #%d: %s\n", report.PR.ID, report.PR.Title)
	} else {
		ew.println("Vigil Code Review")
	}
	if report.PR.Repository != "" {
		ew.printf("Repository: %s", report.PR.Repository)
		if report.PR.Project != "" {
			ew.printf(" (%s)", report.PR.Project)
		}
		ew.println("")
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d changed (%d added, %d deleted, %d edited)\n",
		sum.Files, sum.Added, sum.Deleted, sum.Edited)
	ew.printf("Issues: %d total", sum.TotalIssues)
	if sum.TotalIssues > 0 {
		ew.printf(" (%d security, %d performance, %d quality)",
			sum.Security, sum.Performance, sum.Quality)
	}
	ew.println("")
	ew.printf("Risk: %s (%d/10)\n", sum.RiskLevel, sum.RiskScore)
	ew.println(strings.Repeat("─", 60))

	if len(report.RiskFactors) > 0 {
		ew.println("\nRISK FACTORS")
		for _, rf := range report.RiskFactors {
			ew.printf("  - %s (%s)", rf.Type, rf.Severity)
			if rf.File != "" {
				ew.printf("  %s", rf.File)
			}
			ew.println("")
			if rf.Description != "" {
				ew.printf("    %s\n", rf.Description)
			}
		}
	}

	if sum.TotalIssues == 0 {
		ew.println("\nNo issues found. Looks good!")
	} else {
		t.writeCategory(ew, "SECURITY", report.Analysis.Security)
		t.writeCategory(ew, "PERFORMANCE", report.Analysis.Performance)
		t.writeCategory(ew, "QUALITY", report.Analysis.Quality)
	}

	if report.Analysis != nil && len(report.Analysis.Suggestions) > 0 {
		ew.println("\nSUGGESTIONS")
		for _, s := range sortedSuggestions(report.Analysis.Suggestions) {
			ew.printf("  [%s] %s: %s\n", s.Priority, s.Type, s.Description)
			if s.Action != "" {
				ew.printf("      %s\n", s.Action)
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Generated by %s %s at %s (run %s)\n",
		report.Tool, report.Version,
		report.GeneratedAt.Format("2006-01-02 15:04:05 MST"), report.RunID)

	return ew.err
}

func (t *TextWriter) writeCategory(ew *errWriter, label string, issues []review.Issue) {
	if len(issues) == 0 {
		return
	}
	ew.printf("\n%s (%d)\n", label, len(issues))
	ew.println(strings.Repeat("─", 40))

	for _, is := range issues {
		ew.printf("\n  %s %s (%s)", severityIcon(is.Severity), is.Type, is.Severity)
		if is.File != "" {
			ew.printf("  %s", is.File)
			if is.Line > 0 {
				ew.printf(":%d", is.Line)
			}
		}
		ew.println("")
		for _, line := range wrapText(is.Description, 70) {
			ew.printf("    %s\n", line)
		}
		if is.Content != "" {
			ew.printf("    > %s\n", is.Content)
		}
		if is.Suggestion != "" {
			ew.println("    Suggestion:")
			for _, line := range wrapText(is.Suggestion, 70) {
				ew.printf("      %s\n", line)
			}
		}
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
