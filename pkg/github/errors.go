package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of GitHub API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// ErrExclusiveAbsent is returned when exclusive mode is combined with state=absent.
var ErrExclusiveAbsent = errors.New("using exclusive with state=absent is not supported")

// GitHubError represents a structured error from GitHub operations
type GitHubError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Op        string    `json:"op,omitempty"`
	Resource  string    `json:"resource,omitempty"`
	Field     string    `json:"field,omitempty"`
	Code      string    `json:"code,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("failed to %s %s: %s", e.Op, e.Resource, e.Message)
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *GitHubError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the failure was transient (rate limiting or an
// unavailable API), so re-running the same manifest later may succeed.
func (e *GitHubError) IsRetryable() bool {
	return e.Retryable
}

// IsRetryable reports whether err carries a transient GitHubError.
func IsRetryable(err error) bool {
	var ghErr *GitHubError
	return errors.As(err, &ghErr) && ghErr.IsRetryable()
}

// IsNotFound reports whether err is a not_found GitHubError anywhere in its chain.
func IsNotFound(err error) bool {
	var ghErr *GitHubError
	return errors.As(err, &ghErr) && ghErr.Type == ErrorTypeNotFound
}

// WrapGitHubError wraps a GitHub API error into our structured error type.
// op names the attempted action ("update", "list labels of") and resource
// the reference it was attempted on.
func WrapGitHubError(err error, op, resource string) *GitHubError {
	if err == nil {
		return nil
	}

	var existing *GitHubError
	if errors.As(err, &existing) {
		if existing.Resource == "" {
			existing.Resource = resource
		}
		if existing.Op == "" {
			existing.Op = op
		}
		return existing
	}

	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		ghErr := parseGitHubAPIError(apiErr, resource)
		ghErr.Op = op
		return ghErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &GitHubError{
			Type:      ErrorTypeRateLimit,
			Message:   fmt.Sprintf("rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time),
			Cause:     err,
			Op:        op,
			Resource:  resource,
			Retryable: true,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &GitHubError{
			Type:      ErrorTypeRateLimit,
			Message:   "secondary rate limit triggered",
			Cause:     err,
			Op:        op,
			Resource:  resource,
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &GitHubError{
			Type:      ErrorTypeNetwork,
			Message:   err.Error(),
			Cause:     err,
			Op:        op,
			Resource:  resource,
			Retryable: true,
		}
	}

	return &GitHubError{
		Type:     ErrorTypeUnknown,
		Message:  err.Error(),
		Cause:    err,
		Op:       op,
		Resource: resource,
	}
}

// parseGitHubAPIError parses GitHub API error responses into structured errors
func parseGitHubAPIError(ghErr *github.ErrorResponse, resource string) *GitHubError {
	baseErr := &GitHubError{
		Resource: resource,
		Cause:    ghErr,
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "authentication failed, check your GitHub token"

	case http.StatusForbidden:
		if strings.Contains(strings.ToLower(ghErr.Message), "rate limit") {
			baseErr.Type = ErrorTypeRateLimit
			baseErr.Message = ghErr.Message
			baseErr.Retryable = true
		} else {
			baseErr.Type = ErrorTypePermission
			baseErr.Message = "insufficient permissions: " + ghErr.Message
		}

	case http.StatusNotFound:
		baseErr.Type = ErrorTypeNotFound
		baseErr.Message = "not found"

	case http.StatusConflict:
		baseErr.Type = ErrorTypeConflict
		baseErr.Message = ghErr.Message

	case http.StatusUnprocessableEntity:
		baseErr.Type = ErrorTypeValidation
		baseErr.Message = "validation failed"

		if len(ghErr.Errors) > 0 {
			var validationErrors []string
			for _, err := range ghErr.Errors {
				if err.Field != "" {
					validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", err.Field, err.Code))
					if baseErr.Field == "" {
						baseErr.Field = err.Field
						baseErr.Code = err.Code
					}
				} else {
					validationErrors = append(validationErrors, err.Message)
				}
			}
			baseErr.Message = fmt.Sprintf("validation failed: %s", strings.Join(validationErrors, "; "))
		} else if ghErr.Message != "" {
			baseErr.Message = ghErr.Message
		}

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeNetwork
		baseErr.Message = fmt.Sprintf("GitHub API unavailable (%d)", ghErr.Response.StatusCode)
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = ghErr.Message
		baseErr.Retryable = ghErr.Response.StatusCode >= 500
	}

	return baseErr
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// ValidationError represents a desired-state validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Err returns the collection as a validation GitHubError, or nil when empty.
func (e ValidationErrors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return &GitHubError{
		Type:    ErrorTypeValidation,
		Message: e.Error(),
		Cause:   e,
	}
}

// notFound builds the error surfaced when an operation requires a resource
// that does not exist.
func notFound(op, resource string) *GitHubError {
	return &GitHubError{
		Type:     ErrorTypeNotFound,
		Message:  "not found",
		Op:       op,
		Resource: resource,
	}
}

// exclusiveAbsent builds the configuration error for exclusive with state=absent.
func exclusiveAbsent(resource string) *GitHubError {
	return &GitHubError{
		Type:     ErrorTypeValidation,
		Message:  ErrExclusiveAbsent.Error(),
		Cause:    ErrExclusiveAbsent,
		Op:       "reconcile",
		Resource: resource,
	}
}
