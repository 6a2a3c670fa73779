package review

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ChangeType classifies how a file changed in a pull request.
type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeModify ChangeType = "modify"
	ChangeDelete ChangeType = "delete"
	ChangeRename ChangeType = "rename"
)

// NormalizeChangeType maps the host's changeType strings onto the four known
// kinds by case-insensitive containment. Checks run in a fixed order so
// combined values like "edit, rename" always resolve the same way; anything
// unrecognized counts as a modification.
func NormalizeChangeType(raw string) ChangeType {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "add"):
		return ChangeAdd
	case strings.Contains(s, "delete"):
		return ChangeDelete
	case strings.Contains(s, "edit"), strings.Contains(s, "modify"):
		return ChangeModify
	case strings.Contains(s, "rename"):
		return ChangeRename
	default:
		return ChangeModify
	}
}

// FileChange describes one changed file in a pull request.
type FileChange struct {
	Path         string     `json:"path"`
	ChangeType   ChangeType `json:"changeType"`
	LinesAdded   int        `json:"linesAdded"`
	LinesDeleted int        `json:"linesDeleted"`
	IsBinary     bool       `json:"isBinary"`
	Language     string     `json:"language,omitempty"`
}

// NewFileChange derives a FileChange from the host's raw path and changeType.
// Line counts are filled in later, once diff content is available.
func NewFileChange(path, rawChangeType string) FileChange {
	return FileChange{
		Path:       path,
		ChangeType: NormalizeChangeType(rawChangeType),
		IsBinary:   IsBinaryPath(path),
		Language:   LanguageOf(path),
	}
}

// ChangeSummary counts files by change kind alongside the total.
type ChangeSummary struct {
	Files   int `json:"files"`
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
	Edited  int `json:"edited"`
	Renamed int `json:"renamed"`
}

// SummarizeChanges tallies the change set per kind and in total.
func SummarizeChanges(files []FileChange) ChangeSummary {
	s := ChangeSummary{Files: len(files)}
	for _, f := range files {
		switch f.ChangeType {
		case ChangeAdd:
			s.Added++
		case ChangeDelete:
			s.Deleted++
		case ChangeRename:
			s.Renamed++
		default:
			s.Edited++
		}
	}
	return s
}

// MatchesAny returns true if the path matches any of the given glob patterns.
// Patterns starting with "**/" also match against the path's base name, so
// "**/*.gen.go" matches generated files at any depth.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Selected reports whether a path passes the include/exclude filters. An
// empty include list selects everything.
func Selected(path string, include, exclude []string) bool {
	if len(include) > 0 && !MatchesAny(path, include) {
		return false
	}
	return !MatchesAny(path, exclude)
}

// Risk factor type identifiers.
const (
	RiskConfigurationChange = "configuration_change"
	RiskDatabaseMigration   = "database_migration"
	RiskSecuritySensitive   = "security_sensitive"
	RiskLargeChange         = "large_change"
)

// RiskFactor is a change-set level risk signal derived from file paths and
// aggregate size, independent of line-level issues.
type RiskFactor struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	File        string   `json:"file,omitempty"`
	Description string   `json:"description"`
}

var (
	configPathPattern    = regexp.MustCompile(`(?i)(\.(json|ya?ml|toml|ini|env|tf|properties)$|dockerfile|docker-compose|web\.config|appsettings)`)
	migrationPathPattern = regexp.MustCompile(`(?i)(migrations?/|migration|\.sql$|flyway|liquibase)`)
	securityPathPattern  = regexp.MustCompile(`(?i)(auth|security|login|password|crypto|secret|permission|certificate)`)
)

// Aggregate change-size thresholds, in total lines added plus deleted.
const (
	largeChangeLines     = 500
	largeChangeLinesHigh = 1500
)

// DetectRiskFactors scans the change set for risk factors. Path checks are
// independent, so a single file can contribute more than one factor.
func DetectRiskFactors(files []FileChange) []RiskFactor {
	factors := []RiskFactor{}
	totalLines := 0

	for _, f := range files {
		totalLines += f.LinesAdded + f.LinesDeleted

		if configPathPattern.MatchString(f.Path) {
			factors = append(factors, RiskFactor{
				Type:        RiskConfigurationChange,
				Severity:    SeverityMedium,
				File:        f.Path,
				Description: "Configuration file changed",
			})
		}
		if migrationPathPattern.MatchString(f.Path) {
			factors = append(factors, RiskFactor{
				Type:        RiskDatabaseMigration,
				Severity:    SeverityHigh,
				File:        f.Path,
				Description: "Database migration or schema change",
			})
		}
		if securityPathPattern.MatchString(f.Path) {
			factors = append(factors, RiskFactor{
				Type:        RiskSecuritySensitive,
				Severity:    SeverityHigh,
				File:        f.Path,
				Description: "Security-sensitive path changed",
			})
		}
	}

	if totalLines > largeChangeLines {
		sev := SeverityMedium
		if totalLines > largeChangeLinesHigh {
			sev = SeverityHigh
		}
		factors = append(factors, RiskFactor{
			Type:        RiskLargeChange,
			Severity:    sev,
			Description: fmt.Sprintf("%d lines changed across %d files", totalLines, len(files)),
		})
	}

	return factors
}
