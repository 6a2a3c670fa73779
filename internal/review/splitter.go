package review

import "strings"

// DiffLine is a single line extracted from a unified diff.
// Number is a best-effort source line number; 0 when unknown.
type DiffLine struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// DiffLines groups the lines of a unified diff by change kind,
// preserving their order of appearance.
type DiffLines struct {
	Added   []DiffLine
	Removed []DiffLine
	Context []DiffLine
}

// SplitDiff classifies raw unified-diff text into added, removed, and context
// lines. A line is added iff it starts with "+" and is not the "+++" file
// header, removed iff it starts with "-" and is not "---". Hunk headers ("@@")
// and diff headers ("diff") are skipped; everything else is context. Empty
// input yields empty groups.
//
// TODO: track hunk headers so Number carries real line positions instead of 0.
func SplitDiff(text string) DiffLines {
	lines := DiffLines{
		Added:   []DiffLine{},
		Removed: []DiffLine{},
		Context: []DiffLine{},
	}
	if text == "" {
		return lines
	}

	for _, raw := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(raw, "+") && !strings.HasPrefix(raw, "+++"):
			lines.Added = append(lines.Added, DiffLine{Text: raw[1:]})
		case strings.HasPrefix(raw, "-") && !strings.HasPrefix(raw, "---"):
			lines.Removed = append(lines.Removed, DiffLine{Text: raw[1:]})
		case strings.HasPrefix(raw, "@@"), strings.HasPrefix(raw, "diff"):
			// hunk and diff headers carry no reviewable content
		default:
			lines.Context = append(lines.Context, DiffLine{Text: raw})
		}
	}
	return lines
}
