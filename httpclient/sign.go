package httpclient

import (
	"net/http"

	"github.com/kbukum/tcclient/hawk"
)

// sign attaches a Hawk Authorization header when the client has
// credentials. payload must be the exact bytes of req's body, or nil.
func (c *Client) sign(req *http.Request, payload []byte) error {
	if c.signer == nil {
		return nil
	}
	return c.signer.Sign(req, c.config.Credentials, payload)
}

// newSigner returns nil for an unauthenticated client.
func newSigner(cfg *Config) *hawk.Signer {
	if cfg.Credentials == nil {
		return nil
	}
	return hawk.NewSigner()
}
