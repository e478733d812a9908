package hawk

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/tcclient/credentials"
)

// Signer produces Authorization headers. A Signer holds no per-request
// state and is safe for concurrent use.
type Signer struct {
	now   func() time.Time
	nonce func() string
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) { s.now = now }
}

// WithNonce overrides nonce generation.
func WithNonce(fn func() string) SignerOption {
	return func(s *Signer) { s.nonce = fn }
}

// NewSigner creates a Signer using the wall clock and random UUID nonces.
func NewSigner(opts ...SignerOption) *Signer {
	s := &Signer{
		now:   time.Now,
		nonce: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestArtifacts extracts the request-bound artifacts from a URL. The path is
// taken without its query string.
func RequestArtifacts(method string, u *url.URL) (*Artifacts, error) {
	if u == nil || u.Hostname() == "" {
		return nil, ErrNoHost
	}

	port := defaultPort(u.Scheme)
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("%w: %q", ErrNoPort, p)
		}
		port = n
	}
	if port == 0 {
		return nil, ErrNoPort
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return &Artifacts{
		Method: method,
		Host:   u.Hostname(),
		Port:   port,
		Path:   path,
	}, nil
}

// Header builds a signed header for method and u. payloadHash may be empty
// when the request has no body. A fresh timestamp and nonce are drawn on
// every call.
func (s *Signer) Header(method string, u *url.URL, creds *credentials.Credentials, payloadHash string) (*Header, error) {
	art, err := RequestArtifacts(method, u)
	if err != nil {
		return nil, err
	}
	ext, err := creds.Ext()
	if err != nil {
		return nil, err
	}

	art.Timestamp = s.now().Unix()
	art.Nonce = s.nonce()
	art.Hash = payloadHash
	art.Ext = ext

	h := &Header{
		ID:        creds.ClientID,
		Timestamp: art.Timestamp,
		Nonce:     art.Nonce,
		Hash:      art.Hash,
		Ext:       art.Ext,
		MAC:       MAC(creds.Key(), art),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Sign sets the Authorization header on req. payload is the exact body
// that will be sent, or nil for a bodyless request; a request carrying a
// body that was not supplied as bytes cannot be signed.
func (s *Signer) Sign(req *http.Request, creds *credentials.Credentials, payload []byte) error {
	if payload == nil && req.Body != nil && req.Body != http.NoBody {
		return ErrStreamBody
	}

	var hash string
	if payload != nil {
		ct := req.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/json"
		}
		hash = PayloadHash(ct, payload)
	}

	h, err := s.Header(req.Method, req.URL, creds, hash)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", h.String())
	return nil
}
