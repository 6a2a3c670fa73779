// Package azdevops provides a minimal Azure DevOps Git REST API client for
// fetching pull request data and posting review results as comment threads.
//
// Authentication uses a personal access token read from the AZURE_DEVOPS_PAT
// environment variable, sent as HTTP basic auth with an empty user name. All
// calls target api-version 7.0.
//
// Read calls retry transient failures with exponential backoff; thread
// creation retries once; thread updates never retry. Failures surface as
// typed errors ([ValidationError], [RemoteError], [TimeoutError],
// [ParseError]) so callers can branch on the failure class.
package azdevops
