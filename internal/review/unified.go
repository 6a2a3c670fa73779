package review

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// AddedFileDiff builds a unified diff introducing the whole file as added
// lines. Used for new files and for content fetched without a base version.
func AddedFileDiff(path, content string) string {
	if content == "" {
		return ""
	}
	lines := strings.Split(content, "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("new file mode 100644\n")
	b.WriteString("--- /dev/null\n")
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		fmt.Fprintf(&b, "+%s\n", line)
	}
	return b.String()
}

// UnifiedContents renders a unified diff between two versions of a file, so
// edits produce both added and removed lines for analysis.
func UnifiedContents(path, oldContent, newContent string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// FileDiffText pairs a file path with its portion of a unified diff.
type FileDiffText struct {
	Path string
	Diff string
}

// SplitUnified splits a multi-file unified diff into per-file sections.
// Empty input yields no sections and no error.
func SplitUnified(text string) ([]FileDiffText, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	fds, err := diff.ParseMultiFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	out := make([]FileDiffText, 0, len(fds))
	for _, fd := range fds {
		raw, err := diff.PrintFileDiff(fd)
		if err != nil {
			return nil, fmt.Errorf("printing diff section: %w", err)
		}
		out = append(out, FileDiffText{Path: diffPath(fd), Diff: string(raw)})
	}
	return out, nil
}

// diffPath prefers the post-image name, falling back to the pre-image for
// deletions, and strips the a/ b/ prefixes git adds.
func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "b/")
	return strings.TrimPrefix(name, "a/")
}
