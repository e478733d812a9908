package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeMalformedPath indicates a relative path that cannot be resolved
	// under the service base URL.
	ErrCodeMalformedPath ErrorCode = iota
	// ErrCodeSigning indicates the request could not be signed.
	ErrCodeSigning
	// ErrCodeTransport indicates a connection, TLS or timeout failure.
	ErrCodeTransport
	// ErrCodeServer indicates a 5xx response.
	ErrCodeServer
	// ErrCodeClient indicates any other non-2xx response.
	ErrCodeClient
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeMalformedPath:
		return "malformed_path"
	case ErrCodeSigning:
		return "signing"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeServer:
		return "server"
	case ErrCodeClient:
		return "client"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Method and URL identify the request, when it got that far.
	Method string
	URL    string
	// StatusCode is the HTTP status code (0 for errors without a response).
	StatusCode int
	// Reason is the status text, e.g. "Not Found".
	Reason string
	// Message describes the error.
	Message string
	// Body is the response body, or a placeholder when it could not be read.
	Body string
	// Retryable indicates whether the failure was eligible for retry.
	Retryable bool
	// Attempts is the number of HTTP attempts made.
	Attempts int
	// BudgetExhausted is set when retries stopped because the time budget
	// ran out; the error is then the last retryable failure.
	BudgetExhausted bool
	// AttemptsExhausted is set when retries stopped because the configured
	// attempt limit was reached before the time budget.
	AttemptsExhausted bool
	// Err is the underlying error.
	Err error
}

// Error implements the error interface. The message always carries the
// method, URL and status when known.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("httpclient: ")
	b.WriteString(e.Code.String())
	if e.Method != "" || e.URL != "" {
		fmt.Fprintf(&b, ": %s %s", e.Method, e.URL)
	}
	if e.StatusCode > 0 {
		reason := e.Reason
		if reason == "" {
			reason = http.StatusText(e.StatusCode)
		}
		fmt.Fprintf(&b, ": %s (%d)", reason, e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Body != "" {
		b.WriteString("\n")
		b.WriteString(e.Body)
	}
	if e.BudgetExhausted {
		fmt.Fprintf(&b, " (retry budget exhausted after %d attempts)", e.Attempts)
	} else if e.AttemptsExhausted {
		fmt.Fprintf(&b, " (gave up after %d attempts)", e.Attempts)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewMalformedPathError creates a malformed path error.
func NewMalformedPathError(path string, err error) *Error {
	msg := fmt.Sprintf("relative path %q", path)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{Code: ErrCodeMalformedPath, Message: msg, Err: err}
}

// NewSigningError creates a signing error.
func NewSigningError(method, url string, err error) *Error {
	return &Error{Code: ErrCodeSigning, Method: method, URL: url, Message: err.Error(), Err: err}
}

// NewTransportError creates a retryable transport error.
func NewTransportError(method, url string, err error) *Error {
	return &Error{
		Code:      ErrCodeTransport,
		Method:    method,
		URL:       url,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewStatusError creates a server or client error from a non-2xx status.
func NewStatusError(method, url string, statusCode int, reason, body string) *Error {
	e := &Error{
		Code:       ErrCodeClient,
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Reason:     reason,
		Body:       body,
	}
	if statusCode >= 500 && statusCode < 600 {
		e.Code = ErrCodeServer
		e.Retryable = true
	}
	return e
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsMalformedPath checks if an error is a malformed path error.
func IsMalformedPath(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeMalformedPath
}

// IsSigning checks if an error is a signing error.
func IsSigning(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeSigning
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeTransport
}

// IsServerError checks if an error is a 5xx error.
func IsServerError(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeServer
}

// IsClientError checks if an error is a 4xx or other non-2xx, non-5xx error.
func IsClientError(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeClient
}

// IsNotFound checks if an error is a 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsRetryable checks if an error was eligible for retry.
func IsRetryable(err error) bool {
	e, ok := asError(err)
	return ok && e.Retryable
}

// IsRetryBudgetExhausted checks if retries stopped on the time budget.
func IsRetryBudgetExhausted(err error) bool {
	e, ok := asError(err)
	return ok && e.BudgetExhausted
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.StatusCode
	}
	return 0
}
