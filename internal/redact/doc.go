// Package redact removes secrets from diff content before it appears in
// review reports or pull request comments.
//
// Detection uses regex heuristics covering common secret shapes: Azure DevOps
// personal access tokens, Azure connection strings, API keys, JWTs, private
// keys, AWS credentials, bearer tokens, and vendor token formats (GitHub,
// Slack, sk- prefixed keys).
//
// Path-based redaction is also supported: files whose paths match configured
// glob patterns have their entire content replaced with [REDACTED] rather than
// being scanned line by line.
package redact
