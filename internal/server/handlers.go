package server

import (
	"crypto/hmac"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// webhookSecretEnv names the environment variable holding the shared secret
// required on webhook deliveries. An empty value disables the check.
const webhookSecretEnv = "VIGIL_WEBHOOK_SECRET"

// handleWebhook accepts Azure DevOps service hook deliveries. Unsupported
// event types are acknowledged without running the pipeline so the hook never
// sees them as failures. Pipeline errors answer with a generic body; details
// stay in the logs.
func (s *Server) handleWebhook(c *gin.Context) {
	if err := s.authorize(c); err != nil {
		RecordWebhookEvent("unknown", "unauthorized")
		s.log.Warn("webhook rejected", "reason", err.Reason, "request_id", c.GetString(requestIDKey))
		c.JSON(err.Status, gin.H{"status": "rejected", "error": "unauthorized"})
		return
	}

	var event WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		RecordWebhookEvent("unknown", "invalid")
		s.log.Warn("webhook payload invalid", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusBadRequest, gin.H{"status": "rejected", "error": "invalid payload"})
		return
	}

	if !event.Supported() {
		RecordWebhookEvent(event.EventType, "ignored")
		s.log.Debug("event ignored", "event", event.EventType)
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "event": event.EventType})
		return
	}

	if event.Resource.PullRequestID <= 0 {
		RecordWebhookEvent(event.EventType, "invalid")
		s.log.Warn("webhook missing pull request id", "event", event.EventType)
		c.JSON(http.StatusBadRequest, gin.H{"status": "rejected", "error": "missing pullRequestId"})
		return
	}

	prID := event.Resource.PullRequestID
	s.log.Info("webhook received",
		"event", event.EventType,
		"pr", prID,
		"repo", event.Resource.Repository.Name,
		"request_id", c.GetString(requestIDKey),
	)

	report, err := s.reviewer.ReviewPullRequest(c.Request.Context(), prID, true)
	if err != nil {
		RecordWebhookEvent(event.EventType, "failed")
		s.log.Error("review failed", "pr", prID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "review failed"})
		return
	}

	RecordWebhookEvent(event.EventType, "processed")
	c.JSON(http.StatusOK, gin.H{
		"status":    "processed",
		"pr":        prID,
		"runId":     report.RunID,
		"riskScore": report.Summary.RiskScore,
		"riskLevel": report.Summary.RiskLevel,
		"issues":    report.Summary.TotalIssues,
	})
}

// authorize enforces the shared-secret header when VIGIL_WEBHOOK_SECRET is
// set. Comparison is constant time.
func (s *Server) authorize(c *gin.Context) *WebhookError {
	secret := os.Getenv(webhookSecretEnv)
	if secret == "" {
		return nil
	}
	got := c.GetHeader(s.cfg.Server.AuthHeader)
	if !hmac.Equal([]byte(got), []byte(secret)) {
		return &WebhookError{Status: http.StatusUnauthorized, Reason: "missing or invalid webhook token"}
	}
	return nil
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}
