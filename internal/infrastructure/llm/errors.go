package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyReply is returned when the model answered with nothing usable.
var ErrEmptyReply = errors.New("empty reply from model")

// ProviderError wraps a failed model call. Retryable marks transient failures
// (rate limits, timeouts, 5xx) that the retry wrapper may try again.
type ProviderError struct {
	Provider  string
	Message   string
	Cause     error
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Provider + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsRetryable reports whether err is a ProviderError flagged as transient.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

var retryablePatterns = []string{
	"rate limit",
	"timeout",
	"connection refused",
	"connection reset",
	"temporary",
	"429",
	"500",
	"502",
	"503",
	"504",
}

func looksTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
