// Package review contains the core types and rule engine for pull-request
// analysis.
//
// It defines the Issue, Suggestion, AnalysisResult, and Report types, splits
// unified-diff text into added/removed/context lines, and evaluates every
// added line against three independent rule categories (security,
// performance, quality). Removed lines run through a small set of
// removed-functionality checks that surface suggestions rather than issues.
//
// Scoring reduces the issue lists to an integer 0-10 risk score using
// per-category severity weights; fractional weights are summed exactly and
// rounded once. [RiskLevel] maps the score onto its label band.
//
// Rules packs (packs.go) let callers disable built-in rules, override
// severities per rule type, and add custom pattern rules from a JSON or YAML
// file.
//
// Change-set helpers normalize host change records into [FileChange] values,
// summarize them per change kind, and derive path- and size-based
// [RiskFactor] signals independent of line-level issues.
package review
