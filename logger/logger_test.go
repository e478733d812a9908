package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type secretObject struct{ id string }

func (s secretObject) MarshalZerologObject(e *zerolog.Event) { e.Str("id", s.id) }

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("output is not a JSON line: %q: %v", line, err)
	}
	return m
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "debug", Format: FormatJSON}, "queue")

	l.Debug("attempt", Fields(FieldMethod, "GET", FieldAttempt, 2))

	m := decodeLine(t, &buf)
	if m["message"] != "attempt" {
		t.Errorf("expected message 'attempt', got %v", m["message"])
	}
	if m[FieldClient] != "queue" {
		t.Errorf("expected client 'queue', got %v", m[FieldClient])
	}
	if m[FieldMethod] != "GET" {
		t.Errorf("expected method GET, got %v", m[FieldMethod])
	}
	if m[FieldAttempt] != float64(2) {
		t.Errorf("expected attempt 2, got %v", m[FieldAttempt])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "warn", Format: FormatJSON}, "")

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
	if l.Enabled(zerolog.DebugLevel) {
		t.Error("debug should not be enabled at warn level")
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "invalid-level", Format: FormatJSON}, "")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info-level filtering, got %q", buf.String())
	}
}

func TestWithComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: FormatJSON}, "auth").
		WithComponent("executor").
		WithFields(map[string]interface{}{"key": "value"}).
		WithError(errors.New("boom"))

	l.Info("done")

	m := decodeLine(t, &buf)
	if m[FieldComponent] != "executor" {
		t.Errorf("expected component executor, got %v", m[FieldComponent])
	}
	if m["key"] != "value" {
		t.Errorf("expected key=value, got %v", m["key"])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected error boom, got %v", m[FieldError])
	}
}

func TestWithObject(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: FormatJSON}, "")
	l.WithObject("credentials", secretObject{id: "tester"}).Info("signed")

	m := decodeLine(t, &buf)
	creds, ok := m["credentials"].(map[string]interface{})
	if !ok || creds["id"] != "tester" {
		t.Errorf("expected credentials object with id, got %v", m["credentials"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	if l.Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger should not be enabled")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: FormatConsole, NoColor: true}, "")
	l.Warn("careful")
	if !strings.Contains(buf.String(), "[WRN]") {
		t.Errorf("expected console level tag, got %q", buf.String())
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields %v", f)
	}
	f = MergeWithError(nil, errors.New("x"))
	if f[FieldError] != "x" {
		t.Errorf("expected error field, got %v", f)
	}
}
