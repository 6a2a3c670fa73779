package review

import "testing"

func TestNormalizeChangeType(t *testing.T) {
	tests := []struct {
		raw  string
		want ChangeType
	}{
		{"add", ChangeAdd},
		{"Add", ChangeAdd},
		{"edit", ChangeModify},
		{"Edit", ChangeModify},
		{"delete", ChangeDelete},
		{"Delete", ChangeDelete},
		{"rename", ChangeRename},
		{"edit, rename", ChangeModify},
		{"sourceRename", ChangeRename},
		{"", ChangeModify},
		{"unknown", ChangeModify},
	}

	for _, tt := range tests {
		got := NormalizeChangeType(tt.raw)
		if got != tt.want {
			t.Errorf("NormalizeChangeType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSummarizeChanges(t *testing.T) {
	files := []FileChange{
		NewFileChange("a.go", "add"),
		NewFileChange("b.go", "delete"),
		NewFileChange("c.go", "edit"),
	}

	sum := SummarizeChanges(files)

	if sum.Files != 3 {
		t.Errorf("Files = %d, want 3", sum.Files)
	}
	if sum.Added != 1 {
		t.Errorf("Added = %d, want 1", sum.Added)
	}
	if sum.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", sum.Deleted)
	}
	if sum.Edited != 1 {
		t.Errorf("Edited = %d, want 1", sum.Edited)
	}
	if sum.Renamed != 0 {
		t.Errorf("Renamed = %d, want 0", sum.Renamed)
	}
}

func TestNewFileChange_Metadata(t *testing.T) {
	fc := NewFileChange("src/main.go", "edit")
	if fc.Language != "Go" {
		t.Errorf("Language = %q, want Go", fc.Language)
	}
	if fc.IsBinary {
		t.Error("main.go should not be binary")
	}

	img := NewFileChange("assets/logo.png", "add")
	if !img.IsBinary {
		t.Error("logo.png should be binary")
	}
}

func TestDetectRiskFactors_Paths(t *testing.T) {
	tests := []struct {
		path     string
		wantType string
		wantSev  Severity
	}{
		{"config/appsettings.json", RiskConfigurationChange, SeverityMedium},
		{"deploy/docker-compose.yml", RiskConfigurationChange, SeverityMedium},
		{"db/migrations/0042_add_users.sql", RiskDatabaseMigration, SeverityHigh},
		{"internal/auth/login.go", RiskSecuritySensitive, SeverityHigh},
		{"pkg/crypto/signer.go", RiskSecuritySensitive, SeverityHigh},
	}

	for _, tt := range tests {
		factors := DetectRiskFactors([]FileChange{NewFileChange(tt.path, "edit")})
		found := false
		for _, f := range factors {
			if f.Type == tt.wantType {
				found = true
				if f.Severity != tt.wantSev {
					t.Errorf("%s: severity = %q, want %q", tt.path, f.Severity, tt.wantSev)
				}
				if f.File != tt.path {
					t.Errorf("%s: File = %q, want the flagged path", tt.path, f.File)
				}
			}
		}
		if !found {
			t.Errorf("%s: no %s factor detected", tt.path, tt.wantType)
		}
	}
}

func TestDetectRiskFactors_MultipleForOneFile(t *testing.T) {
	// A SQL migration under a path mentioning auth trips both detectors.
	factors := DetectRiskFactors([]FileChange{NewFileChange("migrations/auth_tokens.sql", "add")})

	types := map[string]bool{}
	for _, f := range factors {
		types[f.Type] = true
	}
	if !types[RiskDatabaseMigration] || !types[RiskSecuritySensitive] {
		t.Errorf("factors = %v, want both migration and security", types)
	}
}

func TestDetectRiskFactors_LargeChange(t *testing.T) {
	small := []FileChange{{Path: "a.go", ChangeType: ChangeModify, LinesAdded: 100, LinesDeleted: 50}}
	if fs := DetectRiskFactors(small); len(fs) != 0 {
		t.Errorf("150-line change produced factors: %v", fs)
	}

	medium := []FileChange{{Path: "a.go", ChangeType: ChangeModify, LinesAdded: 400, LinesDeleted: 200}}
	fs := DetectRiskFactors(medium)
	if len(fs) != 1 || fs[0].Type != RiskLargeChange || fs[0].Severity != SeverityMedium {
		t.Errorf("600-line change: factors = %v, want one medium large_change", fs)
	}

	big := []FileChange{{Path: "a.go", ChangeType: ChangeModify, LinesAdded: 1200, LinesDeleted: 400}}
	fs = DetectRiskFactors(big)
	if len(fs) != 1 || fs[0].Type != RiskLargeChange || fs[0].Severity != SeverityHigh {
		t.Errorf("1600-line change: factors = %v, want one high large_change", fs)
	}
}

func TestDetectRiskFactors_Empty(t *testing.T) {
	if fs := DetectRiskFactors(nil); len(fs) != 0 {
		t.Errorf("DetectRiskFactors(nil) = %v, want none", fs)
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"vendor/lib.go", []string{"vendor/**"}, true},
		{"main.go", []string{"vendor/**"}, false},
		{"foo.gen.go", []string{"**/*.gen.go"}, true},
		{"pkg/foo.gen.go", []string{"**/*.gen.go"}, true},
		{"dist/bundle.js", []string{"**/dist/**"}, true},
		{"main.go", []string{"*.go"}, true},
		{"main.go", nil, false},
	}
	for _, tt := range tests {
		got := MatchesAny(tt.path, tt.patterns)
		if got != tt.want {
			t.Errorf("MatchesAny(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}

func TestSelected(t *testing.T) {
	include := []string{"**/*"}
	exclude := []string{"vendor/**", "**/*.min.js"}

	if !Selected("src/app.js", include, exclude) {
		t.Error("src/app.js should be selected")
	}
	if !Selected("main.go", include, exclude) {
		t.Error("main.go should be selected")
	}
	if Selected("vendor/dep.go", include, exclude) {
		t.Error("vendor/dep.go should be excluded")
	}
	if Selected("assets/app.min.js", include, exclude) {
		t.Error("assets/app.min.js should be excluded")
	}
	if !Selected("anything.txt", nil, nil) {
		t.Error("empty filters should select everything")
	}
	if Selected("docs/readme.md", []string{"src/**"}, nil) {
		t.Error("path outside include list should not be selected")
	}
}
