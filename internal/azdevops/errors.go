package azdevops

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports request parameters that were missing or invalid
// before any network call was made. Missing lists every failed field, not
// just the first.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: missing or invalid %s", strings.Join(e.Missing, ", "))
}

// RemoteError is a non-success response from the Azure DevOps API.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s: azure devops returned status %d", e.Op, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Temporary reports whether the failure is worth retrying. Server-side
// errors are; anything in the 4xx range is not.
func (e *RemoteError) Temporary() bool {
	return e.StatusCode >= 500
}

// IsAuthError reports whether err is a credential failure from the Azure
// DevOps API, directly or wrapped.
func IsAuthError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden
	}
	return false
}

// TimeoutError indicates the request exceeded its deadline or the context
// was canceled while waiting.
type TimeoutError struct {
	Op  string
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request to %s timed out: %v", e.Op, e.URL, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Temporary() bool { return true }

// ParseError indicates the API responded with a body that could not be
// decoded into the expected shape.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing azure devops response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
