// Package credentials holds the client identity used to sign requests.
//
// A Credentials value is immutable once handed to a client; the access token
// never appears in String output or log events.
package credentials

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kbukum/tcclient/validation"
)

// Credentials identify a client. Certificate is set only for temporary
// credentials; AuthorizedScopes restricts the scopes a request may use.
type Credentials struct {
	ClientID         string   `json:"clientId" validate:"required,printascii,excludesall=\"\\"`
	AccessToken      string   `json:"accessToken" validate:"required"`
	Certificate      string   `json:"certificate,omitempty" validate:"omitempty,json"`
	AuthorizedScopes []string `json:"authorizedScopes,omitempty" validate:"omitempty,dive,required"`
}

// New returns permanent credentials.
func New(clientID, accessToken string) *Credentials {
	return &Credentials{ClientID: clientID, AccessToken: accessToken}
}

// Key is the MAC key derived from the access token.
func (c *Credentials) Key() []byte {
	return []byte(c.AccessToken)
}

// Validate checks required fields and that Certificate, when set, is JSON.
func (c *Credentials) Validate() error {
	return validation.Struct(c)
}

// Ext returns the Hawk ext value carrying the certificate and authorized
// scopes, or "" for plain permanent credentials.
func (c *Credentials) Ext() (string, error) {
	if c.Certificate == "" && c.AuthorizedScopes == nil {
		return "", nil
	}

	ext := map[string]any{}
	if c.Certificate != "" {
		if !json.Valid([]byte(c.Certificate)) {
			return "", fmt.Errorf("credentials: certificate is not valid JSON")
		}
		ext["certificate"] = json.RawMessage(c.Certificate)
	}
	// An explicit empty scope list is kept: it authorizes nothing.
	if c.AuthorizedScopes != nil {
		ext["authorizedScopes"] = c.AuthorizedScopes
	}

	data, err := json.Marshal(ext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// IsTemporary reports whether a certificate is attached.
func (c *Credentials) IsTemporary() bool {
	return c.Certificate != ""
}

func (c *Credentials) String() string {
	if c == nil {
		return "<no credentials>"
	}
	return fmt.Sprintf("Credentials{ClientID: %q, AccessToken: <redacted>}", c.ClientID)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (c *Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("client_id", c.ClientID).
		Bool("temporary", c.IsTemporary()).
		Int("authorized_scopes", len(c.AuthorizedScopes))
}
