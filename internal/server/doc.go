// Package server hosts the webhook HTTP server and the review pipeline.
//
// The server exposes three routes: POST /webhook accepts Azure DevOps service
// hook deliveries (git.pullrequest.created and git.pullrequest.updated run a
// review, everything else is acknowledged as a no-op), GET /healthz reports
// liveness, and GET /metrics serves the Prometheus registry. When the
// VIGIL_WEBHOOK_SECRET environment variable is set, deliveries must carry it
// in the configured auth header or they are rejected with 401.
//
// [Reviewer] is the pipeline itself: fetch the pull request and its latest
// iteration, build per-file unified diffs (cache-aware content fetches),
// analyze them, assemble the [review.Report], and post the rendered markdown
// back to the pull request as a comment thread. The CLI drives the same
// Reviewer for one-shot reviews.
package server
