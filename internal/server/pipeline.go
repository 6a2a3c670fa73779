package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/vigil/internal/azdevops"
	"github.com/dshills/vigil/internal/cache"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/output"
	"github.com/dshills/vigil/internal/redact"
	"github.com/dshills/vigil/internal/review"
)

// GitClient is the slice of the Azure DevOps API the pipeline uses.
type GitClient interface {
	GetPullRequest(ctx context.Context, prID int) (*azdevops.PullRequest, error)
	GetChanges(ctx context.Context, prID int) (*azdevops.ChangeSet, error)
	GetItemContent(ctx context.Context, path, commit string) (string, error)
	CreateThread(ctx context.Context, prID int, tr azdevops.ThreadRequest) (*azdevops.Thread, error)
}

// Reviewer runs the fetch-analyze-report pipeline against one repository.
type Reviewer struct {
	client   GitClient
	analyzer *review.Analyzer
	contents *cache.Cache
	cfg      config.Config
	log      *slog.Logger
	version  string
}

// NewReviewer assembles a Reviewer from config: rules pack, redaction setting
// and content cache all come from cfg. client may be nil for local-only use
// ([Reviewer.ReviewUnifiedDiff]); ReviewPullRequest then fails cleanly.
func NewReviewer(client GitClient, cfg config.Config, version string, log *slog.Logger) (*Reviewer, error) {
	if log == nil {
		log = slog.Default()
	}

	rules := review.DefaultRuleSet()
	pack, err := review.LoadPack(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	rules, err = pack.Apply(rules)
	if err != nil {
		return nil, err
	}
	analyzer := review.NewAnalyzer(rules, review.WithRedaction(cfg.Privacy.RedactSecrets))

	contents, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("initializing content cache: %w", err)
	}

	return &Reviewer{
		client:   client,
		analyzer: analyzer,
		contents: contents,
		cfg:      cfg,
		log:      log,
		version:  version,
	}, nil
}

// ReviewPullRequest fetches a pull request and its latest change set, analyzes
// every selected text file, and assembles the report. When post is true the
// rendered markdown is published as a new comment thread. Per-file fetch
// failures skip the file and the review continues with the rest.
func (r *Reviewer) ReviewPullRequest(ctx context.Context, prID int, post bool) (*review.Report, error) {
	if r.client == nil {
		return nil, errors.New("no Azure DevOps client configured")
	}
	start := time.Now()

	pr, err := r.client.GetPullRequest(ctx, prID)
	if err != nil {
		RecordReview("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("fetching pull request %d: %w", prID, err)
	}
	cs, err := r.client.GetChanges(ctx, prID)
	if err != nil {
		RecordReview("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("fetching changes for pull request %d: %w", prID, err)
	}

	source := cs.Iteration.SourceRefCommit.CommitID
	target := cs.Iteration.TargetRefCommit.CommitID

	var files []review.FileChange
	var results []*review.AnalysisResult
	for _, change := range cs.Changes {
		if change.Item.IsFolder {
			continue
		}
		path := strings.TrimPrefix(change.Item.Path, "/")
		if !review.Selected(path, r.cfg.Include, r.cfg.Exclude) {
			r.log.Debug("file excluded by filters", "pr", prID, "path", path)
			continue
		}

		fc := review.NewFileChange(path, change.ChangeType)
		if fc.IsBinary || fc.ChangeType == review.ChangeDelete {
			files = append(files, fc)
			continue
		}
		if redact.ShouldRedactPath(path, r.cfg.Privacy.RedactPaths) {
			r.log.Debug("content withheld by redaction path policy", "pr", prID, "path", path)
			files = append(files, fc)
			continue
		}

		diffText, err := r.fileDiff(ctx, pr.Repository.Name, change, fc.ChangeType, source, target)
		if err != nil {
			r.log.Warn("skipping file after fetch failure", "pr", prID, "path", path, "error", err)
			files = append(files, fc)
			continue
		}
		lines := review.SplitDiff(diffText)
		fc.LinesAdded = len(lines.Added)
		fc.LinesDeleted = len(lines.Removed)
		files = append(files, fc)
		results = append(results, r.analyzer.AnalyzeDiff(diffText, path))
	}

	combined := review.Combine(results...)
	report := review.NewReport(r.version, prMeta(pr), files, combined)
	RecordIssues(len(combined.Security), len(combined.Performance), len(combined.Quality))

	if post {
		if err := r.postReport(ctx, prID, report); err != nil {
			RecordReview("error", time.Since(start).Seconds())
			return report, fmt.Errorf("posting review thread: %w", err)
		}
		RecordThreadPosted()
	}

	RecordReview("success", time.Since(start).Seconds())
	r.log.Info("review complete",
		"pr", prID,
		"repo", pr.Repository.Name,
		"files", len(files),
		"issues", combined.TotalIssues(),
		"score", combined.RiskScore,
		"posted", post,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// ReviewUnifiedDiff analyzes a local multi-file unified diff without touching
// Azure DevOps. The report carries no pull request metadata.
func (r *Reviewer) ReviewUnifiedDiff(diffText string) (*review.Report, error) {
	sections, err := review.SplitUnified(diffText)
	if err != nil {
		return nil, err
	}

	var files []review.FileChange
	var results []*review.AnalysisResult
	for _, sec := range sections {
		if !review.Selected(sec.Path, r.cfg.Include, r.cfg.Exclude) {
			continue
		}
		fc := review.NewFileChange(sec.Path, sectionChangeType(sec.Diff))
		lines := review.SplitDiff(sec.Diff)
		fc.LinesAdded = len(lines.Added)
		fc.LinesDeleted = len(lines.Removed)
		files = append(files, fc)
		if fc.IsBinary || redact.ShouldRedactPath(sec.Path, r.cfg.Privacy.RedactPaths) {
			continue
		}
		results = append(results, r.analyzer.AnalyzeDiff(sec.Diff, sec.Path))
	}

	return review.NewReport(r.version, review.PullRequestMeta{}, files, review.Combine(results...)), nil
}

// fileDiff builds the unified diff for one changed file. Adds synthesize an
// all-added diff from the source version; edits and renames diff the target
// version against the source version. A missing base degrades to an all-added
// diff rather than failing the file.
func (r *Reviewer) fileDiff(ctx context.Context, repo string, change azdevops.ItemChange, kind review.ChangeType, source, target string) (string, error) {
	path := strings.TrimPrefix(change.Item.Path, "/")

	head, err := r.content(ctx, repo, change.Item.Path, source)
	if err != nil {
		return "", err
	}
	if kind == review.ChangeAdd {
		return review.AddedFileDiff(path, head), nil
	}

	basePath := change.Item.Path
	if change.Item.OriginalPath != "" {
		basePath = change.Item.OriginalPath
	}
	base, err := r.content(ctx, repo, basePath, target)
	if err != nil {
		r.log.Debug("base version unavailable, treating file as added", "path", path, "error", err)
		return review.AddedFileDiff(path, head), nil
	}
	return review.UnifiedContents(path, base, head)
}

// content fetches one file version, consulting the content cache first.
func (r *Reviewer) content(ctx context.Context, repo, path, version string) (string, error) {
	key := cache.ContentKey(repo, version, path)
	if text, ok := r.contents.Get(key); ok {
		return text, nil
	}
	text, err := r.client.GetItemContent(ctx, path, version)
	if err != nil {
		return "", err
	}
	if err := r.contents.Put(key, text); err != nil {
		r.log.Warn("caching content failed", "path", path, "error", err)
	}
	return text, nil
}

// postReport renders the report as markdown and creates a comment thread on
// the pull request. Threads with findings stay active; clean reviews close.
func (r *Reviewer) postReport(ctx context.Context, prID int, report *review.Report) error {
	text, err := output.Render(report, "markdown")
	if err != nil {
		return err
	}
	status := "closed"
	if report.Summary.TotalIssues > 0 {
		status = "active"
	}
	_, err = r.client.CreateThread(ctx, prID, azdevops.ThreadRequest{
		Status: status,
		Comments: []azdevops.Comment{{
			Content:     text,
			CommentType: "text",
		}},
	})
	return err
}

func prMeta(pr *azdevops.PullRequest) review.PullRequestMeta {
	return review.PullRequestMeta{
		ID:           pr.PullRequestID,
		Title:        pr.Title,
		Description:  pr.Description,
		Author:       pr.CreatedBy.DisplayName,
		SourceBranch: shortRef(pr.SourceRefName),
		TargetBranch: shortRef(pr.TargetRefName),
		Repository:   pr.Repository.Name,
		Project:      pr.Repository.Project.Name,
		URL:          pr.URL,
	}
}

// shortRef strips the refs/heads/ prefix git refs carry.
func shortRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

// sectionChangeType infers the change kind from a diff section's file headers.
func sectionChangeType(section string) string {
	switch {
	case strings.Contains(section, "--- /dev/null"):
		return "add"
	case strings.Contains(section, "+++ /dev/null"):
		return "delete"
	default:
		return "edit"
	}
}
