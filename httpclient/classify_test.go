package httpclient

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	transportErr := errors.New("connection refused")

	tests := []struct {
		name      string
		in        TransportResult
		kind      OutcomeKind
		code      ErrorCode
		retryable bool
	}{
		{"200", TransportResult{StatusCode: 200}, Success, 0, false},
		{"204", TransportResult{StatusCode: 204}, Success, 0, false},
		{"transport", TransportResult{Err: transportErr}, RetryableFailure, ErrCodeTransport, true},
		{"500", TransportResult{StatusCode: 500}, RetryableFailure, ErrCodeServer, true},
		{"503", TransportResult{StatusCode: 503}, RetryableFailure, ErrCodeServer, true},
		{"400", TransportResult{StatusCode: 400}, TerminalFailure, ErrCodeClient, false},
		{"404", TransportResult{StatusCode: 404}, TerminalFailure, ErrCodeClient, false},
		{"429", TransportResult{StatusCode: 429}, TerminalFailure, ErrCodeClient, false},
		{"304", TransportResult{StatusCode: 304}, TerminalFailure, ErrCodeClient, false},
		{"2xx unreadable", TransportResult{StatusCode: 200, BodyErr: errors.New("eof")}, RetryableFailure, ErrCodeTransport, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Method = "GET"
			tt.in.URL = "https://tc.example.com/api/auth/v1/x"
			out := Classify(tt.in)
			if out.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", out.Kind, tt.kind)
			}
			if tt.kind == Success {
				if out.Response == nil || out.Err != nil {
					t.Fatalf("unexpected outcome %+v", out)
				}
				return
			}
			if out.Err.Code != tt.code || out.Err.Retryable != tt.retryable {
				t.Errorf("got code=%v retryable=%v", out.Err.Code, out.Err.Retryable)
			}
		})
	}
}

func TestClassifyTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("tls: handshake failure")
	out := Classify(TransportResult{Method: "GET", URL: "https://x/", Err: cause})
	if !errors.Is(out.Err, cause) || !IsTransport(out.Err) {
		t.Fatalf("expected wrapped transport error, got %v", out.Err)
	}
}

func TestClassifyMessage(t *testing.T) {
	out := Classify(TransportResult{
		Method:     "DELETE",
		URL:        "https://tc.example.com/api/auth/v1/roles/r",
		StatusCode: 404,
		Status:     "404 Not Found",
		Body:       []byte(`{"code":"ResourceNotFound"}`),
	})
	msg := out.Err.Error()
	for _, want := range []string{"DELETE", "https://tc.example.com/api/auth/v1/roles/r", "Not Found (404)", "ResourceNotFound"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if !IsNotFound(out.Err) || StatusCode(out.Err) != 404 {
		t.Errorf("expected 404 helpers to match, got %v", out.Err)
	}
}

func TestClassifyBodyReadFailureKeepsStatus(t *testing.T) {
	out := Classify(TransportResult{
		Method:     "GET",
		URL:        "https://tc.example.com/api/auth/v1/x",
		StatusCode: 502,
		Status:     "502 Bad Gateway",
		BodyErr:    errors.New("unexpected EOF"),
	})
	if out.Kind != RetryableFailure || out.Err.StatusCode != 502 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Err.Body != "cannot retrieve response body: unexpected EOF" {
		t.Errorf("unexpected body placeholder %q", out.Err.Body)
	}
	if !strings.Contains(out.Err.Error(), "Bad Gateway (502)") {
		t.Errorf("primary error lost: %q", out.Err.Error())
	}
}

func TestReasonPhrase(t *testing.T) {
	tests := []struct {
		status string
		code   int
		want   string
	}{
		{"404 Not Found", 404, "Not Found"},
		{"418 I'm a teapot", 418, "I'm a teapot"},
		{"", 503, "Service Unavailable"},
		{"599", 599, ""},
	}
	for _, tt := range tests {
		if got := reasonPhrase(tt.status, tt.code); got != tt.want {
			t.Errorf("reasonPhrase(%q, %d) = %q, want %q", tt.status, tt.code, got, tt.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	codes := map[ErrorCode]string{
		ErrCodeMalformedPath: "malformed_path",
		ErrCodeSigning:       "signing",
		ErrCodeTransport:     "transport",
		ErrCodeServer:        "server",
		ErrCodeClient:        "client",
		ErrorCode(99):        "unknown",
	}
	for code, want := range codes {
		if code.String() != want {
			t.Errorf("%d.String() = %q, want %q", code, code.String(), want)
		}
	}
}
