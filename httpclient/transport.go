package httpclient

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/tcclient/security"
)

// TLSConfig is the shared security TLS configuration.
type TLSConfig = security.TLSConfig

const (
	h2ReadIdleTimeout = 30 * time.Second
	h2PingTimeout     = 15 * time.Second
)

// newTransport builds the pooled transport shared by all calls on a client.
// HTTP/2 is negotiated over TLS, and idle HTTP/2 connections are health
// checked with pings so a dead connection fails fast instead of hanging an
// attempt.
func newTransport(tlsCfg *TLSConfig) (*http.Transport, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	built, err := tlsCfg.Build()
	if err != nil {
		return nil, err
	}
	if built != nil {
		t.TLSClientConfig = built
	}

	h2, err := http2.ConfigureTransports(t)
	if err != nil {
		return nil, fmt.Errorf("httpclient: configure http2: %w", err)
	}
	h2.ReadIdleTimeout = h2ReadIdleTimeout
	h2.PingTimeout = h2PingTimeout

	return t, nil
}
