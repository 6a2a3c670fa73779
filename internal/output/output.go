package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dshills/vigil/internal/review"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *review.Report) error
}

// UnsupportedFormatError is returned when no writer exists for a format.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format: %s", e.Format)
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "markdown":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "html":
		return &HTMLWriter{}, nil
	case "text":
		return &TextWriter{}, nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// Render formats the report into a string.
func Render(report *review.Report, format string) (string, error) {
	writer, err := GetWriter(format)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := writer.Write(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *review.Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}

// typeGroup collects the issues of one rule type, in the order the analyzer
// emitted them.
type typeGroup struct {
	Type   string
	Issues []review.Issue
}

func groupByType(issues []review.Issue) []typeGroup {
	index := make(map[string]int)
	var groups []typeGroup
	for _, is := range issues {
		i, ok := index[is.Type]
		if !ok {
			i = len(groups)
			index[is.Type] = i
			groups = append(groups, typeGroup{Type: is.Type})
		}
		groups[i].Issues = append(groups[i].Issues, is)
	}
	return groups
}

// sortedSuggestions orders suggestions high priority first, preserving the
// original order within a priority.
func sortedSuggestions(sugs []review.Suggestion) []review.Suggestion {
	out := make([]review.Suggestion, len(sugs))
	copy(out, sugs)
	sort.SliceStable(out, func(i, j int) bool {
		return review.PriorityRank(out[i].Priority) > review.PriorityRank(out[j].Priority)
	})
	return out
}

// riskEmoji maps a risk level label to its marker.
func riskEmoji(level string) string {
	switch level {
	case "Critical":
		return "🔴"
	case "High":
		return "🟠"
	case "Medium":
		return "🟡"
	case "Low":
		return "🟢"
	default:
		return "⚪"
	}
}
