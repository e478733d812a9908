package httpclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// OutcomeKind tags the result of one attempt.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	RetryableFailure
	TerminalFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case RetryableFailure:
		return "retryable_failure"
	case TerminalFailure:
		return "terminal_failure"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one attempt. Response is set for
// Success, Err otherwise. Attempts is filled in by the executor once the
// call is done.
type Outcome struct {
	Kind     OutcomeKind
	Response *Response
	Err      *Error
	Attempts int
}

// TransportResult is what came back from the transport for one attempt.
// When Err is set the request never produced a response and the other
// response fields are zero.
type TransportResult struct {
	Method string
	URL    string
	Err    error

	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	// BodyErr is the failure reading Body, if any.
	BodyErr error
}

// Classify maps a transport result to an Outcome. It performs no I/O.
func Classify(r TransportResult) Outcome {
	if r.Err != nil {
		return Outcome{Kind: RetryableFailure, Err: NewTransportError(r.Method, r.URL, r.Err)}
	}

	if r.StatusCode >= 200 && r.StatusCode < 300 {
		if r.BodyErr != nil {
			return Outcome{
				Kind: RetryableFailure,
				Err:  NewTransportError(r.Method, r.URL, fmt.Errorf("read response body: %w", r.BodyErr)),
			}
		}
		return Outcome{
			Kind:     Success,
			Response: &Response{StatusCode: r.StatusCode, Header: r.Header, Body: r.Body},
		}
	}

	body := string(r.Body)
	if r.BodyErr != nil {
		body = fmt.Sprintf("cannot retrieve response body: %v", r.BodyErr)
	}
	e := NewStatusError(r.Method, r.URL, r.StatusCode, reasonPhrase(r.Status, r.StatusCode), body)
	if e.Retryable {
		return Outcome{Kind: RetryableFailure, Err: e}
	}
	return Outcome{Kind: TerminalFailure, Err: e}
}

// reasonPhrase strips the numeric code from a status line such as
// "404 Not Found", falling back to the standard text.
func reasonPhrase(status string, code int) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}
