package server

import "fmt"

// Service hook event types that trigger a review. Every other event type is
// acknowledged and dropped.
const (
	EventPullRequestCreated = "git.pullrequest.created"
	EventPullRequestUpdated = "git.pullrequest.updated"
)

// WebhookEvent is the service hook envelope Azure DevOps posts.
type WebhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"eventType" binding:"required"`
	Resource  WebhookResource `json:"resource"`
}

// WebhookResource identifies the pull request an event refers to.
type WebhookResource struct {
	PullRequestID int `json:"pullRequestId"`
	Repository    struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Project struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
	} `json:"repository"`
}

// Supported reports whether this event type triggers the pipeline.
func (e *WebhookEvent) Supported() bool {
	switch e.EventType {
	case EventPullRequestCreated, EventPullRequestUpdated:
		return true
	}
	return false
}

// WebhookError describes a webhook delivery that was rejected before the
// pipeline ran. Status is the HTTP status the handler answers with.
type WebhookError struct {
	Status int
	Reason string
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook rejected: %s", e.Reason)
}
