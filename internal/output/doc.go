// Package output formats review reports for display or machine consumption.
//
// Four formats are supported:
//   - markdown: PR-comment-friendly, used when posting review threads
//   - json: full structured report for pipelines and tooling
//   - html: self-contained report page
//   - text: human-readable terminal output (default for the CLI)
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*review.Report]. [Render] returns
// the formatted report as a string, and [WriteReport] handles file-or-stdout
// destination selection. Unknown format names produce an
// [UnsupportedFormatError].
package output
