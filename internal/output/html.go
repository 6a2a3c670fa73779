package output

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dshills/vigil/internal/review"
)

// HTMLWriter outputs a self-contained HTML report page.
type HTMLWriter struct{}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Vigil Review — PR #{{ .Report.PR.ID }}</title>
<style>
	body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background: #f4f4f9; padding: 40px; }
	.container { max-width: 900px; margin: 0 auto; }
	.header { background: linear-gradient(135deg, #2c3e50, #4a6b8a); color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
	.header p { margin: 4px 0 0; opacity: 0.85; }
	.risk { font-size: 1.2em; margin: 20px 0; }
	table.summary { border-collapse: collapse; margin-bottom: 20px; }
	table.summary td, table.summary th { border: 1px solid #ddd; padding: 6px 14px; text-align: center; }
	.issue { background: white; margin: 15px 0; padding: 20px; border-left: 6px solid #ccc; border-radius: 4px; box-shadow: 0 2px 5px rgba(0,0,0,0.05); }
	.critical { border-left-color: #ff4757; }
	.high { border-left-color: #ffa502; }
	.medium { border-left-color: #eccc68; }
	.low { border-left-color: #70a1ff; }
	h3 { margin-top: 0; }
	.meta { color: #666; font-size: 0.9em; font-family: monospace; background: #eee; padding: 2px 5px; border-radius: 3px; }
	.content { font-family: monospace; background: #f8f8f8; padding: 8px; border-radius: 3px; display: block; margin: 8px 0; white-space: pre-wrap; }
	.suggestion { background: #e3f2fd; padding: 10px; border-radius: 4px; margin-top: 10px; color: #0d47a1; }
	.factor { background: #fff3e0; padding: 10px 16px; border-radius: 4px; margin: 8px 0; }
	.footer { color: #888; font-size: 0.85em; margin-top: 30px; }
</style>
</head>
<body>
<div class="container">
	<div class="header">
		<h1>Vigil Code Review</h1>
		<p>PR #{{ .Report.PR.ID }}{{ if .Report.PR.Title }} — {{ .Report.PR.Title }}{{ end }}</p>
	</div>
	<div class="risk">{{ .Emoji }} <strong>{{ .Report.Summary.RiskLevel }} risk</strong> — score {{ .Report.Summary.RiskScore }}/10</div>
	<table class="summary">
		<tr><th>Files</th><th>Added</th><th>Deleted</th><th>Edited</th><th>Issues</th></tr>
		<tr><td>{{ .Report.Summary.Files }}</td><td>{{ .Report.Summary.Added }}</td><td>{{ .Report.Summary.Deleted }}</td><td>{{ .Report.Summary.Edited }}</td><td>{{ .Report.Summary.TotalIssues }}</td></tr>
	</table>
	{{ if .Report.RiskFactors }}
	<h2>Risk Factors</h2>
	{{ range .Report.RiskFactors }}
	<div class="factor"><strong>{{ .Type }}</strong> ({{ .Severity }}){{ if .File }} — <span class="meta">{{ .File }}</span>{{ end }}{{ if .Description }}<br>{{ .Description }}{{ end }}</div>
	{{ end }}
	{{ end }}
	{{ range .Sections }}
	<h2>{{ .Label }} ({{ len .Issues }})</h2>
	{{ range .Issues }}
	<div class="issue {{ .Severity }}">
		<h3>[{{ .Severity }}] {{ .Type }}</h3>
		<p>Location: <span class="meta">{{ .File }}{{ if .Line }}:{{ .Line }}{{ end }}</span></p>
		<p>{{ .Description }}</p>
		{{ if .Content }}<span class="content">{{ .Content }}</span>{{ end }}
		{{ if .Suggestion }}<div class="suggestion"><strong>Fix:</strong> {{ .Suggestion }}</div>{{ end }}
	</div>
	{{ end }}
	{{ end }}
	{{ if .Suggestions }}
	<h2>Suggestions</h2>
	{{ range .Suggestions }}
	<div class="suggestion"><strong>[{{ .Priority }}] {{ .Type }}</strong> — {{ .Description }}{{ if .Action }}<br>{{ .Action }}{{ end }}</div>
	{{ end }}
	{{ end }}
	<p class="footer">Generated by {{ .Report.Tool }} {{ .Report.Version }} at {{ .Report.GeneratedAt.Format "2006-01-02 15:04:05 MST" }} (run {{ .Report.RunID }})</p>
</div>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlTemplate))

type htmlSection struct {
	Label  string
	Issues []review.Issue
}

func (h *HTMLWriter) Write(w io.Writer, report *review.Report) error {
	var sections []htmlSection
	var suggestions []review.Suggestion
	if report.Analysis != nil {
		for _, s := range []htmlSection{
			{Label: "Security", Issues: report.Analysis.Security},
			{Label: "Performance", Issues: report.Analysis.Performance},
			{Label: "Quality", Issues: report.Analysis.Quality},
		} {
			if len(s.Issues) > 0 {
				sections = append(sections, s)
			}
		}
		suggestions = sortedSuggestions(report.Analysis.Suggestions)
	}

	data := struct {
		Report      *review.Report
		Emoji       string
		Sections    []htmlSection
		Suggestions []review.Suggestion
	}{
		Report:      report,
		Emoji:       riskEmoji(report.Summary.RiskLevel),
		Sections:    sections,
		Suggestions: suggestions,
	}

	if err := htmlTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}
