package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/tcclient/httpclient"
)

// Requester issues one logical call. *httpclient.Client implements it.
type Requester interface {
	Request(ctx context.Context, method, path string, query httpclient.Query, body any) (*httpclient.Response, error)
}

type call struct {
	query httpclient.Query
}

// RequestOption configures a single REST request.
type RequestOption func(*call)

// WithQuery appends query parameters, in order.
func WithQuery(q httpclient.Query) RequestOption {
	return func(c *call) {
		c.query = append(c.query, q...)
	}
}

// WithQueryParam appends one query parameter.
func WithQueryParam(key, value string) RequestOption {
	return func(c *call) {
		c.query = c.query.Add(key, value)
	}
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, r Requester, path string, opts ...RequestOption) (*Response[T], error) {
	return Do[T](ctx, r, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, r Requester, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return Do[T](ctx, r, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, r Requester, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return Do[T](ctx, r, http.MethodPut, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, r Requester, path string, opts ...RequestOption) (*Response[T], error) {
	return Do[T](ctx, r, http.MethodDelete, path, nil, opts...)
}

// Do executes a REST request and decodes the JSON response into type T.
func Do[T any](ctx context.Context, r Requester, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	resp, err := Exec(ctx, r, method, path, body, opts...)
	if err != nil {
		return nil, err
	}
	data, err := Decode[T](resp)
	if err != nil {
		return nil, err
	}
	return &Response[T]{StatusCode: resp.StatusCode, Header: resp.Header, Data: data}, nil
}

// Exec executes a request and returns the raw response, for operations
// whose body is not needed.
func Exec(ctx context.Context, r Requester, method, path string, body any, opts ...RequestOption) (*httpclient.Response, error) {
	c := &call{}
	for _, opt := range opts {
		opt(c)
	}
	return r.Request(ctx, method, path, c.query, body)
}

// Decode unmarshals a response body into T.
func Decode[T any](resp *httpclient.Response) (T, error) {
	var data T
	if err := resp.JSON(&data); err != nil {
		return data, fmt.Errorf("httpclient/rest: %w", err)
	}
	return data, nil
}
