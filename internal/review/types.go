package review

import (
	"time"

	"github.com/google/uuid"
)

// Severity represents the severity level of an issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Category represents the rule category an issue belongs to.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryQuality     Category = "quality"
)

// Priority represents the priority of a suggestion.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityRank returns a numeric rank for ordering (higher = more urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Issue represents a single rule match against an added line.
// Issues are never mutated after creation.
type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Line        int      `json:"line"`
	Content     string   `json:"content"`
	File        string   `json:"file"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// Suggestion is a top-level recommendation derived from the analysis.
type Suggestion struct {
	Type        string   `json:"type"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
}

// AnalysisResult holds the issues found in one analyzed change, by category,
// plus the derived suggestions and risk score.
type AnalysisResult struct {
	Security    []Issue      `json:"security"`
	Performance []Issue      `json:"performance"`
	Quality     []Issue      `json:"quality"`
	Suggestions []Suggestion `json:"suggestions"`
	RiskScore   int          `json:"riskScore"`
}

// NewAnalysisResult returns an empty result with non-nil issue lists.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Security:    []Issue{},
		Performance: []Issue{},
		Quality:     []Issue{},
		Suggestions: []Suggestion{},
	}
}

// TotalIssues returns the number of issues across all categories.
func (r *AnalysisResult) TotalIssues() int {
	return len(r.Security) + len(r.Performance) + len(r.Quality)
}

// PullRequestMeta carries the pull request fields used in reports.
type PullRequestMeta struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Author       string `json:"author,omitempty"`
	SourceBranch string `json:"sourceBranch,omitempty"`
	TargetBranch string `json:"targetBranch,omitempty"`
	Repository   string `json:"repository,omitempty"`
	Project      string `json:"project,omitempty"`
	URL          string `json:"url,omitempty"`
}

// ReportSummary provides an overview of the change set and its analysis.
type ReportSummary struct {
	ChangeSummary
	TotalIssues int    `json:"totalIssues"`
	Security    int    `json:"security"`
	Performance int    `json:"performance"`
	Quality     int    `json:"quality"`
	RiskScore   int    `json:"riskScore"`
	RiskLevel   string `json:"riskLevel"`
}

// Report is the top-level output structure.
type Report struct {
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	RunID       string          `json:"runId"`
	GeneratedAt time.Time       `json:"generatedAt"`
	PR          PullRequestMeta `json:"pr"`
	Files       []FileChange    `json:"files,omitempty"`
	Summary     ReportSummary   `json:"summary"`
	Analysis    *AnalysisResult `json:"analysis"`
	RiskFactors []RiskFactor    `json:"riskFactors,omitempty"`
}

// NewReport assembles a report for a reviewed change set.
func NewReport(version string, pr PullRequestMeta, files []FileChange, analysis *AnalysisResult) *Report {
	if analysis == nil {
		analysis = NewAnalysisResult()
	}
	return &Report{
		Tool:        "vigil",
		Version:     version,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		PR:          pr,
		Files:       files,
		Summary:     ComputeSummary(files, analysis),
		Analysis:    analysis,
		RiskFactors: DetectRiskFactors(files),
	}
}

// RiskLevel maps a risk score to its label band.
func RiskLevel(score int) string {
	switch {
	case score >= 8:
		return "Critical"
	case score >= 6:
		return "High"
	case score >= 4:
		return "Medium"
	case score >= 2:
		return "Low"
	default:
		return "Minimal"
	}
}

// ComputeSummary calculates the report summary from the change set and analysis.
func ComputeSummary(files []FileChange, analysis *AnalysisResult) ReportSummary {
	s := ReportSummary{ChangeSummary: SummarizeChanges(files)}
	if analysis == nil {
		s.RiskLevel = RiskLevel(0)
		return s
	}
	s.Security = len(analysis.Security)
	s.Performance = len(analysis.Performance)
	s.Quality = len(analysis.Quality)
	s.TotalIssues = analysis.TotalIssues()
	s.RiskScore = analysis.RiskScore
	s.RiskLevel = RiskLevel(analysis.RiskScore)
	return s
}
