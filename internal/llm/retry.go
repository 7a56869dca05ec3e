package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// IsRetryableError checks if an LLM API error is worth retrying.
// It covers common transient failures: network errors, rate limits,
// server errors, and provider-specific overload conditions.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())

	retryablePatterns := []string{
		"connection reset",
		"connection refused",
		"i/o timeout",
		"no such host",
		"overloaded_error",
		"server_error",
	}
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	retryableCodes := []int{429, 500, 502, 503, 529}
	for _, code := range retryableCodes {
		if strings.Contains(msg, fmt.Sprintf("%d", code)) {
			return true
		}
	}

	return false
}

// RetryCall retries an LLM call with exponential backoff (1s, 2s, 4s...).
// maxRetries counts retry attempts, not the initial call. Only errors that
// IsRetryableError accepts are retried.
func RetryCall(ctx context.Context, maxRetries int, logger *slog.Logger, fn func() (*Response, error)) (*Response, error) {
	resp, err := fn()
	if err == nil {
		return resp, nil
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if !IsRetryableError(err) {
			return nil, err
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		backoff := time.Second * (1 << uint(attempt))
		if logger != nil {
			logger.Warn("llm call failed, retrying",
				"error", err, "backoff", backoff, "attempt", attempt+1, "max", maxRetries)
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		resp, err = fn()
		if err == nil {
			return resp, nil
		}
	}

	return nil, err
}
