package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/tcclient/logger"
	"github.com/kbukum/tcclient/resilience"
)

type state int

const (
	stateStart state = iota
	stateAttempt
	stateBackoff
	stateDone
)

// execution is the retry state of one logical call. It lives on the
// caller's stack and is discarded when the call returns.
type execution struct {
	c       *Client
	desc    Descriptor
	backoff *resilience.Backoff
	attempt int
	last    Outcome
}

// execute runs the Start/Attempt/Backoff/Done machine for d.
func (c *Client) execute(ctx context.Context, d Descriptor) Outcome {
	e := &execution{c: c, desc: d}

	st := stateStart
	for {
		switch st {
		case stateStart:
			e.backoff = resilience.NewBackoff(c.config.Retry, c.config.Clock)
			st = stateAttempt

		case stateAttempt:
			e.attempt++
			e.last = e.try(ctx)
			switch {
			case e.last.Kind != RetryableFailure:
				st = stateDone
			case ctx.Err() != nil:
				e.abort(ctx.Err())
				st = stateDone
			default:
				st = stateBackoff
			}

		case stateBackoff:
			delay, ok := e.backoff.Next()
			if !ok {
				e.last.Kind = TerminalFailure
				switch e.backoff.Stopped() {
				case resilience.StopElapsed:
					e.last.Err.BudgetExhausted = true
				case resilience.StopAttempts:
					e.last.Err.AttemptsExhausted = true
				}
				st = stateDone
				continue
			}
			c.log.Warn("retrying request", logger.Fields(
				logger.FieldMethod, e.desc.Method,
				logger.FieldURL, e.last.Err.URL,
				logger.FieldAttempt, e.attempt,
				logger.FieldStatus, e.last.Err.StatusCode,
				logger.FieldDelay, delay.Milliseconds(),
				logger.FieldElapsed, e.backoff.Elapsed().Milliseconds(),
				logger.FieldError, e.last.Err.Error(),
			))
			if c.config.Retry.OnRetry != nil {
				c.config.Retry.OnRetry(e.attempt, e.last.Err, delay)
			}
			if err := resilience.Sleep(ctx, delay); err != nil {
				e.abort(err)
				st = stateDone
				continue
			}
			st = stateAttempt

		case stateDone:
			e.last.Attempts = e.attempt
			if e.last.Err != nil {
				e.last.Err.Attempts = e.attempt
			}
			return e.last
		}
	}
}

// abort turns the pending retryable failure into a terminal one caused by
// the caller giving up.
func (e *execution) abort(cause error) {
	e.last.Kind = TerminalFailure
	e.last.Err.Retryable = false
	if !errors.Is(e.last.Err, cause) {
		e.last.Err = &Error{
			Code:    ErrCodeTransport,
			Method:  e.last.Err.Method,
			URL:     e.last.Err.URL,
			Message: cause.Error(),
			Err:     cause,
		}
	}
}

// try composes, signs and sends one attempt. Nothing from a previous
// attempt is reused: the request and its signature are rebuilt each time.
func (e *execution) try(ctx context.Context) Outcome {
	c := e.c

	composed, err := Compose(c.base, e.desc)
	if err != nil {
		return Outcome{Kind: TerminalFailure, Err: asTerminal(err, e.desc.Method)}
	}
	url := composed.URL.String()

	for k, v := range c.config.Headers {
		composed.Header.Set(k, v)
	}
	composed.Header.Set("User-Agent", c.userAgent)

	req, err := composed.HTTPRequest(ctx)
	if err != nil {
		return Outcome{Kind: TerminalFailure, Err: NewMalformedPathError(e.desc.Path, err)}
	}
	if err := c.sign(req, composed.Body); err != nil {
		return Outcome{Kind: TerminalFailure, Err: NewSigningError(req.Method, url, err)}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.log.Debug("sending request", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, url,
		logger.FieldAttempt, e.attempt,
	))

	start := time.Now()
	result := c.roundTrip(req)
	result.URL = url
	c.metrics.RecordAttempt(ctx, c.config.ServiceName, req.Method, result.StatusCode)

	out := Classify(result)
	c.log.Debug("request finished", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, url,
		logger.FieldAttempt, e.attempt,
		logger.FieldStatus, result.StatusCode,
		logger.FieldDuration, time.Since(start).Milliseconds(),
		"outcome", out.Kind.String(),
	))
	return out
}

// roundTrip sends req and reads the whole response body, closing it so
// the connection goes back to the pool.
func (c *Client) roundTrip(req *http.Request) TransportResult {
	result := TransportResult{Method: req.Method}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = err
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.Status = resp.Status
	result.Header = resp.Header
	result.Body, result.BodyErr = io.ReadAll(resp.Body)
	return result
}

func asTerminal(err error, method string) *Error {
	if e, ok := asError(err); ok {
		return e
	}
	return &Error{Code: ErrCodeClient, Method: method, Message: err.Error(), Err: err}
}
