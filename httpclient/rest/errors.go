package rest

import "github.com/kbukum/tcclient/httpclient"

// Convenience re-exports so REST callers can check errors without
// importing httpclient.

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsClientError checks if the error is a non-retryable, non-2xx response.
func IsClientError(err error) bool { return httpclient.IsClientError(err) }

// IsServerError checks if the error is a 5xx server error.
func IsServerError(err error) bool { return httpclient.IsServerError(err) }

// IsRetryBudgetExhausted checks if retries ran out of time.
func IsRetryBudgetExhausted(err error) bool { return httpclient.IsRetryBudgetExhausted(err) }
