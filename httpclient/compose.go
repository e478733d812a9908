package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/tcclient/hawk"
)

// ContentTypeJSON is the only body encoding the client produces.
const ContentTypeJSON = "application/json"

// BaseURL returns <rootURL>/api/<service>/<version>/. Trailing slashes on
// rootURL are ignored; a path prefix on rootURL is kept.
func BaseURL(rootURL, service, version string) (*url.URL, error) {
	raw := strings.TrimRight(rootURL, "/") + "/api/" + service + "/" + version + "/"
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("httpclient: invalid root URL %q: %w", rootURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("httpclient: root URL %q must be absolute", rootURL)
	}
	return u, nil
}

// Descriptor describes one logical call. It is never mutated; every
// attempt composes a fresh request from it.
type Descriptor struct {
	Method string
	// Path is relative to the service base URL and must not start with "/".
	Path  string
	Query Query
	// Body is JSON-encoded unless it is already []byte or json.RawMessage.
	Body any
}

// ComposedRequest is a fully addressed request ready to sign and send.
type ComposedRequest struct {
	Method string
	URL    *url.URL
	// Body is nil when the request has no payload.
	Body   []byte
	Header http.Header
}

// Compose resolves d against base and serializes its body.
func Compose(base *url.URL, d Descriptor) (*ComposedRequest, error) {
	u, err := resolve(base, d.Path)
	if err != nil {
		return nil, err
	}
	if q := d.Query.Encode(); q != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + q
		} else {
			u.RawQuery = q
		}
	}

	body, err := encodeBody(d.Body)
	if err != nil {
		if err == hawk.ErrStreamBody {
			return nil, NewSigningError(d.Method, u.String(), err)
		}
		return nil, fmt.Errorf("httpclient: encode body for %s %s: %w", d.Method, u, err)
	}

	header := make(http.Header)
	header.Set("Accept", ContentTypeJSON)
	if body != nil {
		header.Set("Content-Type", ContentTypeJSON)
	}

	return &ComposedRequest{Method: d.Method, URL: u, Body: body, Header: header}, nil
}

// resolve joins a relative path onto base using reference resolution, so
// the path is appended below the base rather than replacing it.
func resolve(base *url.URL, path string) (*url.URL, error) {
	if strings.HasPrefix(path, "/") {
		return nil, NewMalformedPathError(path, fmt.Errorf("must not start with /"))
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, NewMalformedPathError(path, err)
	}
	if ref.IsAbs() || ref.Host != "" || ref.User != nil {
		return nil, NewMalformedPathError(path, fmt.Errorf("must not carry a scheme or host"))
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	u.RawFragment = ""
	if !strings.HasPrefix(u.Path, base.Path) {
		return nil, NewMalformedPathError(path, fmt.Errorf("escapes %s", base.Path))
	}
	return u, nil
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return []byte(v), nil
	case []byte:
		return v, nil
	case io.Reader:
		return nil, hawk.ErrStreamBody
	default:
		return json.Marshal(v)
	}
}

// HTTPRequest builds a new *http.Request. Each call returns an independent
// request with its own body reader and header map.
func (r *ComposedRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	return req, nil
}
