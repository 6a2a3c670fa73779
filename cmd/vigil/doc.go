// Vigil reviews Azure DevOps pull requests for security, performance, and
// quality issues.
//
// It runs either as a webhook server that reviews pull requests as they are
// created or updated, or as a one-shot CLI that reviews a single pull request
// or a local diff, emitting structured reports with deterministic exit codes
// suitable for CI gating.
//
// Usage:
//
//	vigil serve                       # listen for pull request webhooks
//	vigil review pr 42 --post         # review PR 42 and post the findings
//	vigil review diff changes.patch   # review a local unified diff
//	vigil review diff < changes.patch # same, from stdin
//
// See https://github.com/dshills/vigil for full documentation.
package main
