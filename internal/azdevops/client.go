package azdevops

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const apiVersion = "7.0"

// Client provides access to the Azure DevOps Git REST API for one repository.
type Client struct {
	orgURL      string
	project     string
	repo        string
	pat         string
	httpCli     *http.Client
	validate    *validator.Validate
	readPolicy  Policy
	writePolicy Policy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpCli = h }
}

// WithPAT sets the personal access token directly instead of reading
// AZURE_DEVOPS_PAT.
func WithPAT(pat string) Option {
	return func(c *Client) { c.pat = pat }
}

// NewClient creates a client for one repository. The personal access token
// is read from the AZURE_DEVOPS_PAT environment variable; it is never read
// from configuration files.
func NewClient(orgURL, project, repo string, opts ...Option) (*Client, error) {
	var missing []string
	if strings.TrimSpace(orgURL) == "" {
		missing = append(missing, "organization")
	}
	if strings.TrimSpace(project) == "" {
		missing = append(missing, "project")
	}
	if strings.TrimSpace(repo) == "" {
		missing = append(missing, "repository")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	c := &Client{
		orgURL:      strings.TrimRight(orgURL, "/"),
		project:     project,
		repo:        repo,
		pat:         os.Getenv("AZURE_DEVOPS_PAT"),
		httpCli:     &http.Client{Timeout: 30 * time.Second},
		validate:    validator.New(),
		readPolicy:  ReadPolicy(),
		writePolicy: WritePolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.pat == "" {
		return nil, fmt.Errorf("AZURE_DEVOPS_PAT environment variable is not set")
	}
	return c, nil
}

// repoURL builds the API base for this repository.
func (c *Client) repoURL() string {
	return fmt.Sprintf("%s/%s/_apis/git/repositories/%s", c.orgURL, url.PathEscape(c.project), url.PathEscape(c.repo))
}

// GetPullRequest fetches pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, prID int) (*PullRequest, error) {
	if prID <= 0 {
		return nil, &ValidationError{Missing: []string{"pullRequestId"}}
	}
	op := "get pull request"
	u := fmt.Sprintf("%s/pullRequests/%d?api-version=%s", c.repoURL(), prID, apiVersion)

	body, err := c.get(ctx, op, u)
	if err != nil {
		return nil, err
	}
	var pr PullRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}
	return &pr, nil
}

// GetIterations lists the iterations of a pull request, oldest first.
func (c *Client) GetIterations(ctx context.Context, prID int) ([]Iteration, error) {
	if prID <= 0 {
		return nil, &ValidationError{Missing: []string{"pullRequestId"}}
	}
	op := "get iterations"
	u := fmt.Sprintf("%s/pullRequests/%d/iterations?api-version=%s", c.repoURL(), prID, apiVersion)

	body, err := c.get(ctx, op, u)
	if err != nil {
		return nil, err
	}
	var list listResponse[Iteration]
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}
	return list.Value, nil
}

// ChangeSet is the changed files of the latest iteration, together with the
// iteration itself so callers can fetch file content at its commits.
type ChangeSet struct {
	Iteration Iteration
	Changes   []ItemChange
}

// GetChanges fetches the changed files of the latest iteration.
func (c *Client) GetChanges(ctx context.Context, prID int) (*ChangeSet, error) {
	iterations, err := c.GetIterations(ctx, prID)
	if err != nil {
		return nil, err
	}
	if len(iterations) == 0 {
		return nil, fmt.Errorf("pull request %d has no iterations", prID)
	}
	latest := iterations[len(iterations)-1]

	op := "get changes"
	u := fmt.Sprintf("%s/pullRequests/%d/iterations/%d/changes?api-version=%s",
		c.repoURL(), prID, latest.ID, apiVersion)

	body, err := c.get(ctx, op, u)
	if err != nil {
		return nil, err
	}
	var changes changesResponse
	if err := json.Unmarshal(body, &changes); err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}
	return &ChangeSet{Iteration: latest, Changes: changes.ChangeEntries}, nil
}

// GetItemContent fetches raw file content at a commit. commit may be empty
// to read the default branch tip.
func (c *Client) GetItemContent(ctx context.Context, path, commit string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &ValidationError{Missing: []string{"path"}}
	}
	op := "get item content"

	q := url.Values{}
	q.Set("path", path)
	q.Set("includeContent", "true")
	q.Set("$format", "text")
	q.Set("api-version", apiVersion)
	if commit != "" {
		q.Set("versionDescriptor.version", commit)
		q.Set("versionDescriptor.versionType", "commit")
	}
	u := fmt.Sprintf("%s/items?%s", c.repoURL(), q.Encode())

	body, err := c.get(ctx, op, u)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CreateThread posts a new comment thread on a pull request. The request is
// validated before any network call; transient failures are retried once.
func (c *Client) CreateThread(ctx context.Context, prID int, tr ThreadRequest) (*Thread, error) {
	if prID <= 0 {
		return nil, &ValidationError{Missing: []string{"pullRequestId"}}
	}
	if err := c.validate.Struct(tr); err != nil {
		return nil, asValidationError(err)
	}
	op := "create thread"
	u := fmt.Sprintf("%s/pullRequests/%d/threads?api-version=%s", c.repoURL(), prID, apiVersion)

	var thread Thread
	err := retry(ctx, c.writePolicy, func() error {
		body, err := c.send(ctx, op, http.MethodPost, u, tr)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &thread); err != nil {
			return &ParseError{Op: op, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// UpdateThread patches an existing comment thread. Updates are never
// retried.
func (c *Client) UpdateThread(ctx context.Context, prID, threadID int, tr ThreadRequest) (*Thread, error) {
	var missing []string
	if prID <= 0 {
		missing = append(missing, "pullRequestId")
	}
	if threadID <= 0 {
		missing = append(missing, "threadId")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	if err := c.validate.Struct(tr); err != nil {
		return nil, asValidationError(err)
	}
	op := "update thread"
	u := fmt.Sprintf("%s/pullRequests/%d/threads/%d?api-version=%s", c.repoURL(), prID, threadID, apiVersion)

	var thread Thread
	err := retry(ctx, NoRetryPolicy(), func() error {
		body, err := c.send(ctx, op, http.MethodPatch, u, tr)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &thread); err != nil {
			return &ParseError{Op: op, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// get performs a GET with the read retry policy.
func (c *Client) get(ctx context.Context, op, u string) ([]byte, error) {
	var body []byte
	err := retry(ctx, c.readPolicy, func() error {
		var err error
		body, err = c.do(ctx, op, http.MethodGet, u, nil)
		return err
	})
	return body, err
}

// send performs a single write request with a JSON payload.
func (c *Client) send(ctx context.Context, op, method, u string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshaling request: %w", op, err)
	}
	return c.do(ctx, op, method, u, data)
}

// do issues one HTTP request and classifies the outcome.
func (c *Client) do(ctx context.Context, op, method, u string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(":"+c.pat)))
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Op: op, URL: u, Err: err}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: trimBody(body)}
	}
	return body, nil
}

// isTimeout reports whether a transport error was a deadline or cancellation.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Timeout()
	}
	return false
}

// trimBody keeps error bodies short enough for log lines.
func trimBody(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// asValidationError converts validator failures into a ValidationError that
// names every failed field.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			ns := fe.Namespace()
			if i := strings.IndexByte(ns, '.'); i >= 0 {
				ns = ns[i+1:]
			}
			missing = append(missing, ns)
		}
		return &ValidationError{Missing: missing}
	}
	return err
}
