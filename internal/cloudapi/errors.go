package cloudapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorCategory names the class of a failed request.
type ErrorCategory string

const (
	CategoryAuth        ErrorCategory = "authentication"
	CategoryNotFound    ErrorCategory = "not_found"
	CategoryRateLimited ErrorCategory = "rate_limited"
	CategoryServer      ErrorCategory = "server"
	CategoryBadRequest  ErrorCategory = "bad_request"
	CategoryHTTP        ErrorCategory = "http"
)

// APIError represents a non-2xx response from the Cloud Agents API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Method and Path identify the failed request.
	Method string
	Path   string

	// Message is the error text from a JSON body, or the raw body.
	Message string

	// Body is the raw response body.
	Body []byte

	// RetryAfter is parsed from the Retry-After header (zero if absent).
	RetryAfter time.Duration
}

func (err *APIError) Error() string {
	return fmt.Sprintf("cloudapi: %s %s: HTTP %d: %s", err.Method, err.Path, err.StatusCode, err.Message)
}

// Category classifies the error by status code.
func (err *APIError) Category() ErrorCategory {
	switch {
	case err.StatusCode == http.StatusUnauthorized || err.StatusCode == http.StatusForbidden:
		return CategoryAuth
	case err.StatusCode == http.StatusNotFound:
		return CategoryNotFound
	case err.StatusCode == http.StatusTooManyRequests:
		return CategoryRateLimited
	case err.StatusCode >= 500:
		return CategoryServer
	case err.StatusCode == http.StatusBadRequest:
		return CategoryBadRequest
	default:
		return CategoryHTTP
	}
}

// Retryable reports whether a caller-driven retry may succeed.
// A 404 for a deleted agent is permanent and never retryable.
func (err *APIError) Retryable() bool {
	c := err.Category()
	return c == CategoryRateLimited || c == CategoryServer
}

// IsUnauthorized reports whether err is a 401/403 response.
func IsUnauthorized(err error) bool {
	return hasCategory(err, CategoryAuth)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return hasCategory(err, CategoryNotFound)
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	return hasCategory(err, CategoryRateLimited)
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	return hasCategory(err, CategoryServer)
}

// IsBadRequest reports whether err is a 400 response.
func IsBadRequest(err error) bool {
	return hasCategory(err, CategoryBadRequest)
}

func hasCategory(err error, category ErrorCategory) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Category() == category
}

// newAPIError builds an APIError from a response status, headers and body.
func newAPIError(method, path string, statusCode int, header http.Header, body []byte) *APIError {
	apiError := &APIError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Body:       body,
		RetryAfter: parseRetryAfter(header.Get("Retry-After"), time.Now()),
	}

	var wireError struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil {
		switch {
		case wireError.Message != "":
			apiError.Message = wireError.Message
		case len(wireError.Error) > 0:
			var s string
			if json.Unmarshal(wireError.Error, &s) == nil {
				apiError.Message = s
			} else {
				var nested struct {
					Message string `json:"message"`
				}
				if json.Unmarshal(wireError.Error, &nested) == nil {
					apiError.Message = nested.Message
				}
			}
		}
	}
	if apiError.Message == "" {
		apiError.Message = strings.TrimSpace(string(body))
	}
	if apiError.Message == "" {
		apiError.Message = http.StatusText(statusCode)
	}
	return apiError
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
