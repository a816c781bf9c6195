package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/watchfire-io/cursoragents/internal/cloudapi"
	"github.com/watchfire-io/cursoragents/internal/config"
	"github.com/watchfire-io/cursoragents/internal/models"
)

// commandError is a user-facing message wrapping the underlying error.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

func validationError(field, format string, a ...any) error {
	return &models.ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// explain maps an error onto the message for its category. subject names
// the resource ("agent bc_abc123") for not-found errors; action is the
// operation for 400 hints ("stop").
func explain(err error, subject, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, config.ErrNoCredential) {
		return &commandError{msg: err.Error() + ".", err: err}
	}

	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return &commandError{msg: validation.Error(), err: err}
	}

	var apiError *cloudapi.APIError
	if !errors.As(err, &apiError) {
		return err
	}

	var headline, hint string
	switch apiError.Category() {
	case cloudapi.CategoryAuth:
		headline, hint = "authentication failed", "check your API key"
	case cloudapi.CategoryNotFound:
		if subject == "" {
			subject = "resource"
		}
		headline = upperFirst(subject) + " not found"
	case cloudapi.CategoryRateLimited:
		headline, hint = "rate limited", "retry later with exponential backoff, or pass --retries"
		if apiError.RetryAfter > 0 {
			hint += fmt.Sprintf(" (server asked to wait %s)", apiError.RetryAfter)
		}
	case cloudapi.CategoryServer:
		headline, hint = "server error", "safe to retry"
	case cloudapi.CategoryBadRequest:
		if action == "stop" {
			headline = "Can only stop running agents. " + apiError.Message
		} else {
			headline = "Bad request - " + apiError.Message
		}
	default:
		headline = "request failed"
	}

	// Every category carries the status code and the raw body.
	msg := fmt.Sprintf("%s (HTTP %d)", headline, apiError.StatusCode)
	if hint != "" {
		msg += ": " + hint
	}
	if body := strings.TrimSpace(string(apiError.Body)); body != "" {
		msg += "\nResponse: " + body
	}
	return &commandError{msg: msg, err: err}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
