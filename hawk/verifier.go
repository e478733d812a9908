package hawk

import (
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kbukum/tcclient/credentials"
)

// DefaultSkew is the accepted clock difference between client and server.
const DefaultSkew = 60 * time.Second

// CredentialsLookup resolves a client id to its credentials. It returns
// ErrUnknownCredentials (or an error wrapping it) for unknown ids.
type CredentialsLookup func(ctx context.Context, id string) (*credentials.Credentials, error)

// StaticCredentials is a CredentialsLookup over a fixed set.
func StaticCredentials(creds ...*credentials.Credentials) CredentialsLookup {
	byID := make(map[string]*credentials.Credentials, len(creds))
	for _, c := range creds {
		byID[c.ClientID] = c
	}
	return func(_ context.Context, id string) (*credentials.Credentials, error) {
		c, ok := byID[id]
		if !ok {
			return nil, ErrUnknownCredentials
		}
		return c, nil
	}
}

// RequestContext is what a verifier needs from a received request.
type RequestContext struct {
	Method        string
	Host          string
	Port          int
	Path          string
	Authorization string
	ContentType   string
	// Payload is checked against the header's hash when both are present.
	Payload []byte
}

// RequestContextFrom reads method, host, port and path from r as received.
// The body is not consumed.
func RequestContextFrom(r *http.Request) (*RequestContext, error) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	if host == "" {
		return nil, ErrNoHost
	}

	hostname, portStr, err := net.SplitHostPort(host)
	if err != nil {
		hostname, portStr = host, ""
	}
	port := defaultPort(scheme)
	if portStr != "" {
		if port, err = strconv.Atoi(portStr); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNoPort, portStr)
		}
	}

	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}

	return &RequestContext{
		Method:        r.Method,
		Host:          hostname,
		Port:          port,
		Path:          path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	}, nil
}

// Verifier checks Hawk headers against known credentials.
type Verifier struct {
	lookup CredentialsLookup
	skew   time.Duration
	nonces NonceStore
	now    func() time.Time

	customNonces bool
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithSkew sets the accepted clock skew.
func WithSkew(d time.Duration) VerifierOption {
	return func(v *Verifier) { v.skew = d }
}

// WithNonceStore enables replay detection. Pass nil to disable it.
func WithNonceStore(s NonceStore) VerifierOption {
	return func(v *Verifier) {
		v.nonces = s
		v.customNonces = true
	}
}

// WithVerifierClock overrides the verifier's notion of now.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a Verifier with a 60s skew window and, unless
// WithNonceStore is given, an in-memory nonce store covering that window.
func NewVerifier(lookup CredentialsLookup, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		lookup: lookup,
		skew:   DefaultSkew,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if !v.customNonces {
		v.nonces = NewMemoryNonceStore(2 * v.skew)
	}
	return v
}

// Verify authenticates rc and returns the matching credentials and the
// parsed header.
func (v *Verifier) Verify(ctx context.Context, rc *RequestContext) (*credentials.Credentials, *Header, error) {
	hdr, err := ParseHeader(rc.Authorization)
	if err != nil {
		return nil, nil, err
	}

	creds, err := v.lookup(ctx, hdr.ID)
	if err != nil {
		return nil, hdr, err
	}
	if creds == nil {
		return nil, hdr, ErrUnknownCredentials
	}

	art := &Artifacts{
		Timestamp: hdr.Timestamp,
		Nonce:     hdr.Nonce,
		Method:    rc.Method,
		Host:      rc.Host,
		Port:      rc.Port,
		Path:      rc.Path,
		Hash:      hdr.Hash,
		Ext:       hdr.Ext,
	}
	if subtle.ConstantTimeCompare([]byte(MAC(creds.Key(), art)), []byte(hdr.MAC)) != 1 {
		return nil, hdr, ErrMACMismatch
	}

	if hdr.Hash != "" && rc.Payload != nil {
		ct := rc.ContentType
		if ct == "" {
			ct = "application/json"
		}
		if subtle.ConstantTimeCompare([]byte(PayloadHash(ct, rc.Payload)), []byte(hdr.Hash)) != 1 {
			return nil, hdr, ErrPayloadMismatch
		}
	}

	if v.nonces != nil && v.nonces.Seen(hdr.ID, hdr.Nonce, hdr.Timestamp) {
		return nil, hdr, ErrReplayedNonce
	}

	delta := v.now().Sub(time.Unix(hdr.Timestamp, 0))
	if delta < 0 {
		delta = -delta
	}
	if delta > v.skew {
		return nil, hdr, fmt.Errorf("%w: off by %s", ErrStaleTimestamp, delta.Round(time.Second))
	}

	return creds, hdr, nil
}

// VerifyRequest verifies r, reading and restoring its body so the payload
// hash can be checked.
func (v *Verifier) VerifyRequest(r *http.Request) (*credentials.Credentials, *Header, error) {
	rc, err := RequestContextFrom(r)
	if err != nil {
		return nil, nil, err
	}
	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, nil, err
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		rc.Payload = body
	}
	return v.Verify(r.Context(), rc)
}

// URLContext builds a RequestContext for an absolute URL, as the client
// saw it, for verifying a header outside of an HTTP server.
func URLContext(method string, u *url.URL, authorization string) (*RequestContext, error) {
	art, err := RequestArtifacts(method, u)
	if err != nil {
		return nil, err
	}
	return &RequestContext{
		Method:        art.Method,
		Host:          art.Host,
		Port:          art.Port,
		Path:          art.Path,
		Authorization: authorization,
	}, nil
}
