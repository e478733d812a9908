// Package hawktest provides an httptest server that checks Hawk signatures
// before handing requests to a test handler.
package hawktest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kbukum/tcclient/credentials"
	"github.com/kbukum/tcclient/hawk"
)

// Request is a recorded request as the server received it.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
	// ClientID is set when the request carried a valid signature.
	ClientID string
	Header   *hawk.Header
	// AuthError is the verification failure, if any.
	AuthError error
}

// Server verifies every request that carries an Authorization header.
// When credentials are configured, unsigned requests are rejected too.
type Server struct {
	*httptest.Server

	verifier *hawk.Verifier
	required bool
	next     http.Handler

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a verifying server in front of next (a 200 "{}"
// responder when nil). It is closed when the test ends.
func NewServer(t testing.TB, next http.Handler, creds ...*credentials.Credentials) *Server {
	t.Helper()
	if next == nil {
		next = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{}"))
		})
	}
	s := &Server{
		verifier: hawk.NewVerifier(hawk.StaticCredentials(creds...)),
		required: len(creds) > 0,
		next:     next,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	rec := Request{Method: r.Method, Path: r.URL.EscapedPath(), RawQuery: r.URL.RawQuery}

	var authErr error
	if r.Header.Get("Authorization") != "" || s.required {
		creds, hdr, err := s.verifier.VerifyRequest(r)
		rec.Header = hdr
		if err != nil {
			authErr = err
		} else {
			rec.ClientID = creds.ClientID
		}
	}
	if r.Body != nil {
		rec.Body = readBody(r)
	}
	rec.AuthError = authErr

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	if authErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "AuthenticationFailed",
			"message": authErr.Error(),
		})
		return
	}
	s.next.ServeHTTP(w, r)
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RootURL is the server URL, usable as a client root URL.
func (s *Server) RootURL() string {
	return s.URL
}
