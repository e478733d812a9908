package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/tcclient/hawk"
	"github.com/kbukum/tcclient/logger"
	"github.com/kbukum/tcclient/observability"
	"github.com/kbukum/tcclient/version"
)

// Client issues requests against one service. It is safe for concurrent
// use; calls share only the immutable configuration and the connection
// pool.
type Client struct {
	httpClient *http.Client
	config     Config
	base       *url.URL
	signer     *hawk.Signer
	userAgent  string

	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ClientMetrics
}

// New creates a new client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := BaseURL(cfg.RootURL, cfg.ServiceName, cfg.APIVersion)
	if err != nil {
		return nil, err
	}

	transport := cfg.Transport
	if transport == nil {
		t, err := newTransport(cfg.TLS)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	metrics, err := observability.NewClientMetrics(cfg.MeterProvider)
	if err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config:    cfg,
		base:      base,
		signer:    newSigner(&cfg),
		userAgent: version.UserAgent(),
		log:       cfg.Logger.WithComponent("httpclient").WithFields(logger.Fields(logger.FieldServiceURL, base.String())),
		tracer:    observability.Tracer(cfg.TracerProvider),
		metrics:   metrics,
	}
	if cfg.Credentials != nil {
		c.log = c.log.WithObject("credentials", cfg.Credentials)
	}
	return c, nil
}

// BaseURL returns a copy of <root>/api/<service>/<version>/.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Authenticated reports whether requests are signed.
func (c *Client) Authenticated() bool {
	return c.signer != nil
}

// Request issues method against path (relative to the base URL) with the
// given query and JSON body, retrying transient failures. It returns the
// response of the first 2xx attempt or an *Error.
func (c *Client) Request(ctx context.Context, method, path string, query Query, body any) (*Response, error) {
	return c.Do(ctx, Descriptor{Method: method, Path: path, Query: query, Body: body})
}

// Do executes d. See Request.
func (c *Client) Do(ctx context.Context, d Descriptor) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, observability.SpanRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrService, c.config.ServiceName),
			attribute.String(observability.AttrMethod, d.Method),
		),
	)
	defer span.End()
	start := time.Now()

	body, err := c.prepareBody(d)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	d.Body = body

	out := c.execute(ctx, d)

	if out.Err != nil {
		span.SetAttributes(attribute.String(observability.AttrURL, out.Err.URL))
	}
	span.SetAttributes(
		attribute.Int(observability.AttrAttempts, out.Attempts),
		attribute.String(observability.AttrOutcome, out.Kind.String()),
	)
	c.metrics.RecordCall(ctx, c.config.ServiceName, d.Method, out.Kind.String(), time.Since(start))

	if out.Kind != Success {
		span.SetAttributes(attribute.Int(observability.AttrStatusCode, out.Err.StatusCode))
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Code.String())
		return nil, out.Err
	}
	span.SetAttributes(attribute.Int(observability.AttrStatusCode, out.Response.StatusCode))
	return out.Response, nil
}

// prepareBody resolves a streaming body before the first attempt. A signed
// request needs the payload hash, so a stream is rejected; an unsigned one
// is buffered once and every attempt resends the same bytes.
func (c *Client) prepareBody(d Descriptor) (any, error) {
	r, ok := d.Body.(io.Reader)
	if !ok {
		return d.Body, nil
	}
	if c.signer != nil {
		return nil, NewSigningError(d.Method, d.Path, hawk.ErrStreamBody)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read request body: %w", err)
	}
	if !json.Valid(bytes.TrimSpace(data)) {
		return nil, fmt.Errorf("httpclient: request body is not JSON")
	}
	return json.RawMessage(data), nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// ServiceName returns the configured service name.
func (c *Client) ServiceName() string {
	return c.config.ServiceName
}
