package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, emptyReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Vigil Code Review — PR #7: Docs touch-up") {
		t.Error("Missing header")
	}
	if !strings.Contains(out, "No issues found. Looks good!") {
		t.Error("Expected clean-report message")
	}
	if !strings.Contains(out, "Risk: Minimal (0/10)") {
		t.Error("Missing risk line")
	}
}

func TestTextWriter_WithIssues(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Repository: shop (retail)") {
		t.Error("Missing repository line")
	}
	if !strings.Contains(out, "Files: 2 changed (1 added, 0 deleted, 1 edited)") {
		t.Error("Missing file counts")
	}
	if !strings.Contains(out, "Issues: 3 total (2 security, 1 performance, 0 quality)") {
		t.Error("Missing issue counts")
	}
	if !strings.Contains(out, "Risk: Critical (8/10)") {
		t.Error("Missing risk line")
	}
	if !strings.Contains(out, "SECURITY (2)") {
		t.Error("Missing security section")
	}
	if !strings.Contains(out, "[!!!] sql_injection (critical)  src/db.js") {
		t.Error("Missing issue line with severity icon")
	}
	if !strings.Contains(out, `> const query = "SELECT * FROM users WHERE id=" + userId;`) {
		t.Error("Missing flagged content")
	}
	if !strings.Contains(out, "[high] security_review:") {
		t.Error("Missing suggestion")
	}
	if strings.Contains(out, "QUALITY") {
		t.Error("Empty quality section should be omitted")
	}
	if !strings.Contains(out, "Generated by vigil 0.1.0") {
		t.Error("Missing footer")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("short", 70)
	if len(lines) != 1 || lines[0] != "short" {
		t.Errorf("wrapText(short) = %v", lines)
	}

	long := strings.Repeat("word ", 40)
	lines = wrapText(long, 30)
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %d line(s)", len(lines))
	}
	for _, l := range lines {
		if len(l) > 30 {
			t.Errorf("line exceeds width: %q", l)
		}
	}
}
