package server

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vigil/internal/azdevops"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/review"
)

// fakeGit implements GitClient in memory. Contents are keyed by
// "<version>:<path>" using the raw item paths Azure DevOps reports.
type fakeGit struct {
	pr         *azdevops.PullRequest
	changes    *azdevops.ChangeSet
	contents   map[string]string
	contentErr map[string]error
	fetches    int
	threads    []azdevops.ThreadRequest
	prErr      error
	changesErr error
	threadErr  error
}

func (f *fakeGit) GetPullRequest(ctx context.Context, prID int) (*azdevops.PullRequest, error) {
	if f.prErr != nil {
		return nil, f.prErr
	}
	return f.pr, nil
}

func (f *fakeGit) GetChanges(ctx context.Context, prID int) (*azdevops.ChangeSet, error) {
	if f.changesErr != nil {
		return nil, f.changesErr
	}
	return f.changes, nil
}

func (f *fakeGit) GetItemContent(ctx context.Context, path, commit string) (string, error) {
	f.fetches++
	key := commit + ":" + path
	if err, ok := f.contentErr[key]; ok {
		return "", err
	}
	text, ok := f.contents[key]
	if !ok {
		return "", &azdevops.RemoteError{Op: "get item content", StatusCode: 404}
	}
	return text, nil
}

func (f *fakeGit) CreateThread(ctx context.Context, prID int, tr azdevops.ThreadRequest) (*azdevops.Thread, error) {
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	f.threads = append(f.threads, tr)
	return &azdevops.Thread{ID: len(f.threads), Status: tr.Status, Comments: tr.Comments}, nil
}

func fixturePR() *azdevops.PullRequest {
	pr := &azdevops.PullRequest{
		PullRequestID: 42,
		Title:         "Add user lookup",
		Description:   "Adds the lookup endpoint",
		Status:        "active",
		SourceRefName: "refs/heads/feature/lookup",
		TargetRefName: "refs/heads/main",
	}
	pr.CreatedBy.DisplayName = "Dana Zhou"
	pr.Repository.ID = "repo-1"
	pr.Repository.Name = "shop"
	pr.Repository.Project.ID = "proj-1"
	pr.Repository.Project.Name = "retail"
	return pr
}

func itemChange(path, kind string) azdevops.ItemChange {
	var ch azdevops.ItemChange
	ch.ChangeType = kind
	ch.Item.Path = path
	return ch
}

// fixtureGit covers the interesting change kinds in one PR: an added file
// with findings, an edited file, a deletion, a binary, and an excluded path.
func fixtureGit() *fakeGit {
	cs := &azdevops.ChangeSet{}
	cs.Iteration.ID = 2
	cs.Iteration.SourceRefCommit.CommitID = "src123"
	cs.Iteration.TargetRefCommit.CommitID = "tgt456"
	cs.Changes = []azdevops.ItemChange{
		itemChange("/src/db.js", "add"),
		itemChange("/src/api.js", "edit"),
		itemChange("/docs/old.md", "delete"),
		itemChange("/assets/logo.png", "add"),
		itemChange("/vendor/lib.js", "edit"),
	}
	return &fakeGit{
		pr:      fixturePR(),
		changes: cs,
		contents: map[string]string{
			"src123:/src/db.js":  `const query = "SELECT * FROM users WHERE id=" + userId;`,
			"src123:/src/api.js": "function handler(req) {\n  document.write(req.body.html);\n  return respond(req);\n}\n",
			"tgt456:/src/api.js": "function handler(req) {\n  return respond(req);\n}\n",
		},
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testReviewer(t *testing.T, client GitClient, cfg config.Config) *Reviewer {
	t.Helper()
	r, err := NewReviewer(client, cfg, "test", testLogger())
	require.NoError(t, err, "reviewer should assemble from default config")
	return r
}

func TestReviewPullRequest(t *testing.T) {
	git := fixtureGit()
	r := testReviewer(t, git, testConfig())

	report, err := r.ReviewPullRequest(context.Background(), 42, true)
	require.NoError(t, err, "pipeline should complete")
	require.NotNil(t, report)

	assert.Equal(t, 42, report.PR.ID)
	assert.Equal(t, "Add user lookup", report.PR.Title)
	assert.Equal(t, "Dana Zhou", report.PR.Author)
	assert.Equal(t, "feature/lookup", report.PR.SourceBranch, "refs/heads/ prefix should be stripped")
	assert.Equal(t, "main", report.PR.TargetBranch)
	assert.Equal(t, "shop", report.PR.Repository)
	assert.Equal(t, "retail", report.PR.Project)

	// vendor/lib.js is excluded, the other four files are reported
	assert.Equal(t, 4, report.Summary.Files)
	assert.Equal(t, 2, report.Summary.Added)
	assert.Equal(t, 1, report.Summary.Deleted)
	assert.Equal(t, 1, report.Summary.Edited)

	require.Len(t, report.Analysis.Security, 2, "sql injection plus DOM sink")
	assert.Equal(t, "sql_injection", report.Analysis.Security[0].Type)
	assert.Equal(t, "xss_sink", report.Analysis.Security[1].Type)
	require.Len(t, report.Analysis.Performance, 1)
	assert.Equal(t, "select_star", report.Analysis.Performance[0].Type)
	assert.Equal(t, 8, report.Summary.RiskScore, "critical 4 + high 3 + medium 1")
	assert.Equal(t, "Critical", report.Summary.RiskLevel)

	require.Len(t, git.threads, 1, "one comment thread posted")
	thread := git.threads[0]
	assert.Equal(t, "active", thread.Status, "threads with findings stay active")
	require.Len(t, thread.Comments, 1)
	assert.Contains(t, thread.Comments[0].Content, "## Vigil Code Review")
	assert.Contains(t, thread.Comments[0].Content, "sql_injection")
	assert.Equal(t, "text", thread.Comments[0].CommentType)
}

func TestReviewPullRequest_LineCounts(t *testing.T) {
	git := fixtureGit()
	r := testReviewer(t, git, testConfig())

	report, err := r.ReviewPullRequest(context.Background(), 42, false)
	require.NoError(t, err)

	byPath := map[string]review.FileChange{}
	for _, f := range report.Files {
		byPath[f.Path] = f
	}

	assert.Equal(t, 1, byPath["src/db.js"].LinesAdded)
	assert.Equal(t, 0, byPath["src/db.js"].LinesDeleted)
	assert.Equal(t, 1, byPath["src/api.js"].LinesAdded, "edit adds one line against the base")
	assert.Equal(t, 0, byPath["src/api.js"].LinesDeleted)
	assert.Equal(t, review.ChangeDelete, byPath["docs/old.md"].ChangeType)
	assert.True(t, byPath["assets/logo.png"].IsBinary)
	assert.NotContains(t, byPath, "vendor/lib.js")

	assert.Empty(t, git.threads, "post=false must not create a thread")
}

func TestReviewPullRequest_CleanPR(t *testing.T) {
	cs := &azdevops.ChangeSet{}
	cs.Iteration.SourceRefCommit.CommitID = "src123"
	cs.Iteration.TargetRefCommit.CommitID = "tgt456"
	cs.Changes = []azdevops.ItemChange{itemChange("/README.md", "add")}
	git := &fakeGit{
		pr:       fixturePR(),
		changes:  cs,
		contents: map[string]string{"src123:/README.md": "# Shop\n\nHow to run the shop service."},
	}
	r := testReviewer(t, git, testConfig())

	report, err := r.ReviewPullRequest(context.Background(), 42, true)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.TotalIssues)
	assert.Equal(t, 0, report.Summary.RiskScore)
	assert.Equal(t, "Minimal", report.Summary.RiskLevel)
	require.Len(t, git.threads, 1)
	assert.Equal(t, "closed", git.threads[0].Status, "clean reviews close their thread")
	assert.Contains(t, git.threads[0].Comments[0].Content, "No issues found")
}

func TestReviewPullRequest_FileFetchFailureDegrades(t *testing.T) {
	git := fixtureGit()
	git.contentErr = map[string]error{
		"src123:/src/db.js": &azdevops.RemoteError{Op: "get item content", StatusCode: 500},
	}
	r := testReviewer(t, git, testConfig())

	report, err := r.ReviewPullRequest(context.Background(), 42, false)
	require.NoError(t, err, "one failed file must not fail the review")

	// db.js is still listed, but only api.js contributed analysis
	assert.Equal(t, 4, report.Summary.Files)
	require.Len(t, report.Analysis.Security, 1)
	assert.Equal(t, "xss_sink", report.Analysis.Security[0].Type)
	assert.Empty(t, report.Analysis.Performance)
}

func TestReviewPullRequest_FetchErrors(t *testing.T) {
	r := testReviewer(t, &fakeGit{prErr: &azdevops.RemoteError{Op: "get pull request", StatusCode: 503}}, testConfig())
	_, err := r.ReviewPullRequest(context.Background(), 42, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching pull request 42")

	r = testReviewer(t, &fakeGit{pr: fixturePR(), changesErr: &azdevops.RemoteError{Op: "get iterations", StatusCode: 503}}, testConfig())
	_, err = r.ReviewPullRequest(context.Background(), 42, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching changes")
}

func TestReviewPullRequest_PostFailure(t *testing.T) {
	git := fixtureGit()
	git.threadErr = &azdevops.RemoteError{Op: "create thread", StatusCode: 500}
	r := testReviewer(t, git, testConfig())

	report, err := r.ReviewPullRequest(context.Background(), 42, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posting review thread")
	assert.NotNil(t, report, "the report survives a failed post")
}

func TestReviewPullRequest_RedactionPathPolicy(t *testing.T) {
	cs := &azdevops.ChangeSet{}
	cs.Iteration.SourceRefCommit.CommitID = "src123"
	cs.Iteration.TargetRefCommit.CommitID = "tgt456"
	cs.Changes = []azdevops.ItemChange{itemChange("/config/.env", "add")}
	git := &fakeGit{
		pr:       fixturePR(),
		changes:  cs,
		contents: map[string]string{"src123:/config/.env": "DB_PASSWORD=hunter2secret\n"},
	}
	r := testReviewer(t, git, testConfig())

	report, err := r.ReviewPullRequest(context.Background(), 42, false)
	require.NoError(t, err)

	assert.Zero(t, git.fetches, "env file content must never be fetched")
	require.Len(t, report.Files, 1, "the file is still listed in the report")
	assert.Equal(t, 0, report.Summary.TotalIssues)
}

func TestReviewPullRequest_NoClient(t *testing.T) {
	r := testReviewer(t, nil, testConfig())
	_, err := r.ReviewPullRequest(context.Background(), 42, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Azure DevOps client")
}

func TestReviewPullRequest_ContentCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	git := fixtureGit()
	r := testReviewer(t, git, cfg)

	_, err := r.ReviewPullRequest(context.Background(), 42, false)
	require.NoError(t, err)
	first := git.fetches
	assert.Equal(t, 3, first, "db.js head, api.js head, api.js base")

	_, err = r.ReviewPullRequest(context.Background(), 42, false)
	require.NoError(t, err)
	assert.Equal(t, first, git.fetches, "second run should be served from cache")
}

func TestReviewUnifiedDiff(t *testing.T) {
	diffText := `diff --git a/src/login.js b/src/login.js
--- a/src/login.js
+++ b/src/login.js
@@ -1,3 +1,4 @@
 function login(user) {
+  const apiKey = "sk-1234567890abcdef1234567890abcdef";
   return session(user);
 }
diff --git a/vendor/dep.js b/vendor/dep.js
--- a/vendor/dep.js
+++ b/vendor/dep.js
@@ -1,2 +1,3 @@
 module.exports = {
+  eval(payload);
 }
`
	r := testReviewer(t, nil, testConfig())

	report, err := r.ReviewUnifiedDiff(diffText)
	require.NoError(t, err)

	assert.Zero(t, report.PR.ID, "local diffs carry no pull request metadata")
	require.Len(t, report.Files, 1, "vendor/dep.js is excluded by default filters")
	assert.Equal(t, "src/login.js", report.Files[0].Path)
	assert.Equal(t, review.ChangeModify, report.Files[0].ChangeType)
	assert.Equal(t, 1, report.Files[0].LinesAdded)

	require.Len(t, report.Analysis.Security, 1)
	assert.Equal(t, "hardcoded_secret", report.Analysis.Security[0].Type)
	assert.True(t, strings.Contains(report.Analysis.Security[0].Content, "[REDACTED]"),
		"secret content must be redacted in the report")
}

func TestReviewUnifiedDiff_Empty(t *testing.T) {
	r := testReviewer(t, nil, testConfig())
	report, err := r.ReviewUnifiedDiff("")
	require.NoError(t, err)
	assert.Zero(t, report.Summary.Files)
	assert.Zero(t, report.Summary.TotalIssues)
}

func TestNewReviewer_BadRulesFile(t *testing.T) {
	cfg := testConfig()
	cfg.RulesFile = "/does/not/exist.json"
	_, err := NewReviewer(nil, cfg, "test", testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading rules file")
}
