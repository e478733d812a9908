package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a successful (2xx) HTTP response with its body fully read.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v. An empty body leaves v untouched.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}
