package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/vigil/internal/azdevops"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/output"
	"github.com/dshills/vigil/internal/review"
	"github.com/dshills/vigil/internal/server"
)

// Shared review flags
var (
	flagOrgURL   string
	flagProject  string
	flagRepo     string
	flagPaths    string
	flagExclude  string
	flagFormat   string
	flagOut      string
	flagFailOn   string
	flagRules    string
	flagNoRedact bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagOrgURL, "org", "", "Azure DevOps organization URL (https://dev.azure.com/<org>)")
	cmd.Flags().StringVar(&flagProject, "project", "", "Azure DevOps project name")
	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repository name")
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Include file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (markdown, json, html, text)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, low, medium, high, critical)")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Rules file path")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagOrgURL != "" {
		m["organizationUrl"] = flagOrgURL
	}
	if flagProject != "" {
		m["project"] = flagProject
	}
	if flagRepo != "" {
		m["repository"] = flagRepo
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	if flagAddr != "" {
		m["addr"] = flagAddr
	}
	return m
}

// applyPathFlags folds the path flags into the loaded config. The paths flag
// replaces the include list; the exclude flag appends to it.
func applyPathFlags(cfg *config.Config) {
	if flagPaths != "" {
		cfg.Include = splitComma(flagPaths)
	}
	if flagExclude != "" {
		cfg.Exclude = append(cfg.Exclude, splitComma(flagExclude)...)
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// newGitClient builds the Azure DevOps client from the repository coordinates
// in the config. The personal access token comes from AZURE_DEVOPS_PAT.
func newGitClient(cfg config.Config) (*azdevops.Client, error) {
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return azdevops.NewClient(cfg.OrganizationURL, cfg.Project, cfg.Repository,
		azdevops.WithHTTPClient(&http.Client{Timeout: timeout}))
}

// failsThreshold reports whether any issue in the report is at or above the
// fail-on threshold.
func failsThreshold(report *review.Report, threshold string) bool {
	if threshold == "" || threshold == "none" {
		return false
	}
	for _, issues := range [][]review.Issue{
		report.Analysis.Security,
		report.Analysis.Performance,
		report.Analysis.Quality,
	} {
		for _, iss := range issues {
			if review.MeetsThreshold(iss.Severity, threshold) {
				return true
			}
		}
	}
	return false
}

// finishReport writes the report and applies the fail-on threshold.
func finishReport(report *review.Report, cfg config.Config) {
	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if failsThreshold(report, cfg.FailOn) {
		exitCode = ExitFindings
	}
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review code changes",
	Long:  "Review a pull request or a local diff. Use subcommands to specify what to review.",
}

var flagPost bool

var reviewPRCmd = &cobra.Command{
	Use:   "pr <id>",
	Short: "Review an Azure DevOps pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prID, err := strconv.Atoi(args[0])
		if err != nil || prID <= 0 {
			fmt.Fprintf(os.Stderr, "Error: invalid pull request id %q\n", args[0])
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyPathFlags(&cfg)

		client, err := newGitClient(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			var verr *azdevops.ValidationError
			if errors.As(err, &verr) {
				exitCode = ExitUsageError
			} else {
				exitCode = ExitAuthError
			}
			return nil
		}

		rev, err := server.NewReviewer(client, cfg, version, newLogger(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		report, err := rev.ReviewPullRequest(context.Background(), prID, flagPost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if azdevops.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			// A post failure still yields the finished report; emit it locally.
			if report != nil {
				if werr := output.WriteReport(report, cfg.Format, flagOut); werr != nil {
					fmt.Fprintf(os.Stderr, "Error writing output: %v\n", werr)
				}
			}
			return nil
		}

		finishReport(report, cfg)
		return nil
	},
}

var reviewDiffCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Review a unified diff from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyPathFlags(&cfg)

		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading diff: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
		} else {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
		}

		rev, err := server.NewReviewer(nil, cfg, version, newLogger(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		report, err := rev.ReviewUnifiedDiff(string(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		finishReport(report, cfg)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewPRCmd)
	reviewCmd.AddCommand(reviewDiffCmd)

	for _, cmd := range []*cobra.Command{reviewPRCmd, reviewDiffCmd} {
		addReviewFlags(cmd)
	}

	reviewPRCmd.Flags().BoolVar(&flagPost, "post", false, "Post the review as a comment thread on the pull request")
}
