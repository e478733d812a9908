package credentials

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeExt(t *testing.T, ext string) map[string]any {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(ext)
	if err != nil {
		t.Fatalf("ext is not base64: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("ext is not JSON: %v", err)
	}
	return m
}

func TestExt(t *testing.T) {
	t.Run("permanent", func(t *testing.T) {
		ext, err := New("id", "key").Ext()
		if err != nil || ext != "" {
			t.Fatalf("expected empty ext, got %q (%v)", ext, err)
		}
	})

	t.Run("temporary", func(t *testing.T) {
		c := New("id", "key")
		c.Certificate = `{"version":1,"scopes":["a"]}`
		ext, err := c.Ext()
		if err != nil {
			t.Fatal(err)
		}
		m := decodeExt(t, ext)
		cert, ok := m["certificate"].(map[string]any)
		if !ok || cert["version"] != float64(1) {
			t.Errorf("certificate not embedded as object: %v", m)
		}
		if _, ok := m["authorizedScopes"]; ok {
			t.Errorf("unexpected authorizedScopes: %v", m)
		}
	})

	t.Run("authorized scopes", func(t *testing.T) {
		c := New("id", "key")
		c.AuthorizedScopes = []string{"queue:create-task:*", "auth:ping"}
		m := decodeExt(t, mustExt(t, c))
		scopes, _ := m["authorizedScopes"].([]any)
		if len(scopes) != 2 || scopes[0] != "queue:create-task:*" {
			t.Errorf("unexpected scopes %v", m["authorizedScopes"])
		}
	})

	t.Run("empty authorized scopes", func(t *testing.T) {
		c := New("id", "key")
		c.AuthorizedScopes = []string{}
		m := decodeExt(t, mustExt(t, c))
		scopes, ok := m["authorizedScopes"].([]any)
		if !ok || len(scopes) != 0 {
			t.Errorf("expected empty scope list, got %v", m)
		}
	})

	t.Run("invalid certificate", func(t *testing.T) {
		c := New("id", "key")
		c.Certificate = "{not json"
		if _, err := c.Ext(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func mustExt(t *testing.T, c *Credentials) string {
	t.Helper()
	ext, err := c.Ext()
	if err != nil {
		t.Fatal(err)
	}
	return ext
}

func TestValidate(t *testing.T) {
	if err := New("id", "key").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := New("", "").Validate(); err == nil {
		t.Fatal("expected error for empty credentials")
	}
	c := New("id", "key")
	c.Certificate = "nope"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for non-JSON certificate")
	}
	for _, id := range []string{`a"b`, `a\b`, "a\tb", "caf\u00e9"} {
		if err := New(id, "key").Validate(); err == nil {
			t.Errorf("expected error for client id %q", id)
		}
	}
	if err := New("project/ci:deploy|x", "key").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSecretNeverPrinted(t *testing.T) {
	c := New("my-client", "super-secret-token")

	if s := fmt.Sprint(c); strings.Contains(s, "super-secret-token") || !strings.Contains(s, "my-client") {
		t.Errorf("unexpected String() %q", s)
	}

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	log.Info().Object("credentials", c).Msg("x")
	if strings.Contains(buf.String(), "super-secret-token") {
		t.Errorf("access token leaked into log: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"client_id":"my-client"`) {
		t.Errorf("client id missing from log: %s", buf.String())
	}
}

func TestKey(t *testing.T) {
	if got := string(New("id", "abc").Key()); got != "abc" {
		t.Errorf("Key() = %q", got)
	}
}
