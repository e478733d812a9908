package validation

import (
	"strings"
	"testing"
	"time"
)

type nested struct {
	MaxElapsed time.Duration `mapstructure:"max_elapsed" validate:"gte=0"`
}

type sample struct {
	RootURL string   `mapstructure:"root_url" validate:"required,http_url"`
	Mode    string   `json:"mode" validate:"omitempty,oneof=json console"`
	Scopes  []string `validate:"dive,excludesall=#"`
	Retry   nested   `mapstructure:"retry"`
}

func TestStructValid(t *testing.T) {
	s := sample{RootURL: "https://tc.example.com", Mode: "json", Scopes: []string{"queue:*"}}
	if err := Struct(s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestStructCollectsAllFields(t *testing.T) {
	s := sample{Mode: "xml", Retry: nested{MaxElapsed: -time.Second}}
	err := Struct(s)
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := Fields(err)
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(fields), err)
	}

	got := map[string]string{}
	for _, fe := range fields {
		got[fe.Field] = fe.Message
	}
	if got["root_url"] != "is required" {
		t.Errorf("root_url: got %q", got["root_url"])
	}
	if !strings.HasPrefix(got["mode"], "must be one of") {
		t.Errorf("mode: got %q", got["mode"])
	}
	if _, ok := got["retry.max_elapsed"]; !ok {
		t.Errorf("expected nested field path retry.max_elapsed, got %v", got)
	}
	if !strings.HasPrefix(err.Error(), "validation failed: ") {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestStructInvalidURL(t *testing.T) {
	err := Struct(sample{RootURL: "not a url"})
	fields := Fields(err)
	if len(fields) != 1 || fields[0].Message != "must be a valid URL" {
		t.Fatalf("expected URL error, got %v", err)
	}
}

func TestFieldsOnForeignError(t *testing.T) {
	if Fields(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"RootURL":   "root_u_r_l",
		"ClientID":  "client_i_d",
		"name":      "name",
		"MaxBackup": "max_backup",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStructExcludesAll(t *testing.T) {
	err := Struct(sample{RootURL: "https://tc.example.com", Scopes: []string{"ok", "not#ok"}})
	fields := Fields(err)
	if len(fields) != 1 {
		t.Fatalf("expected 1 field error, got %v", err)
	}
	if fields[0].Message != "must not contain any of: #" {
		t.Errorf("unexpected message %q", fields[0].Message)
	}
}
