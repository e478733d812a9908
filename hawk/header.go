package hawk

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is a parsed Hawk Authorization header.
type Header struct {
	ID        string
	Timestamp int64
	Nonce     string
	Hash      string
	Ext       string
	MAC       string
}

// String formats the header value. hash and ext are emitted only when set.
// Values are written verbatim; Validate reports those the header grammar
// cannot carry.
func (h *Header) String() string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(` id="`)
	b.WriteString(h.ID)
	b.WriteString(`", ts="`)
	b.WriteString(strconv.FormatInt(h.Timestamp, 10))
	b.WriteString(`", nonce="`)
	b.WriteString(h.Nonce)
	if h.Hash != "" {
		b.WriteString(`", hash="`)
		b.WriteString(h.Hash)
	}
	if h.Ext != "" {
		b.WriteString(`", ext="`)
		b.WriteString(h.Ext)
	}
	b.WriteString(`", mac="`)
	b.WriteString(h.MAC)
	b.WriteByte('"')
	return b.String()
}

// Validate checks that every attribute value fits the header grammar:
// printable ASCII other than double quote and backslash, which have no
// escape form.
func (h *Header) Validate() error {
	for _, a := range [...]struct{ name, v string }{
		{"id", h.ID}, {"nonce", h.Nonce}, {"hash", h.Hash}, {"ext", h.Ext}, {"mac", h.MAC},
	} {
		if !validAttribute(a.v) {
			return fmt.Errorf("%w: %s %q", ErrInvalidAttribute, a.name, a.v)
		}
	}
	return nil
}

// validAttribute reports whether v can be carried in a quoted attribute.
func validAttribute(v string) bool {
	for i := 0; i < len(v); i++ {
		if !attrChar(v[i]) {
			return false
		}
	}
	return true
}

func attrChar(c byte) bool {
	return c >= 0x20 && c <= 0x7e && c != '"' && c != '\\'
}

// ParseHeader parses an Authorization header value of the form
// `Hawk id="...", ts="...", nonce="...", [hash="...",] [ext="...",] mac="..."`.
func ParseHeader(value string) (*Header, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrMissingHeader
	}
	scheme, rest, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, Scheme) {
		return nil, fmt.Errorf("%w: scheme is not %s", ErrInvalidHeader, Scheme)
	}

	attrs, err := parseAttributes(rest)
	if err != nil {
		return nil, err
	}

	h := &Header{}
	for key, val := range attrs {
		switch key {
		case "id":
			h.ID = val
		case "ts":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: ts %q", ErrInvalidHeader, val)
			}
			h.Timestamp = ts
		case "nonce":
			h.Nonce = val
		case "hash":
			h.Hash = val
		case "ext":
			h.Ext = val
		case "mac":
			h.MAC = val
		case "app", "dlg":
			return nil, fmt.Errorf("%w: %s is not supported", ErrInvalidHeader, key)
		default:
			return nil, fmt.Errorf("%w: unknown attribute %q", ErrInvalidHeader, key)
		}
	}

	for name, v := range map[string]string{"id": h.ID, "nonce": h.Nonce, "mac": h.MAC} {
		if v == "" {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidHeader, name)
		}
	}
	if _, ok := attrs["ts"]; !ok {
		return nil, fmt.Errorf("%w: missing ts", ErrInvalidHeader)
	}
	return h, nil
}

// parseAttributes reads comma separated key="value" pairs. A value runs to
// the next double quote and must consist of attribute characters.
func parseAttributes(s string) (map[string]string, error) {
	attrs := make(map[string]string)
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			return attrs, nil
		}

		eq := strings.IndexByte(s[i:], '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: malformed attribute", ErrInvalidHeader)
		}
		key := strings.TrimSpace(s[i : i+eq])
		i += eq + 1
		if i >= len(s) || s[i] != '"' {
			return nil, fmt.Errorf("%w: attribute %s is not quoted", ErrInvalidHeader, key)
		}
		i++

		var val strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			i++
			if c == '"' {
				closed = true
				break
			}
			if !attrChar(c) {
				return nil, fmt.Errorf("%w: invalid character in %s", ErrInvalidHeader, key)
			}
			val.WriteByte(c)
		}
		if !closed {
			return nil, fmt.Errorf("%w: unterminated value for %s", ErrInvalidHeader, key)
		}
		if _, dup := attrs[key]; dup {
			return nil, fmt.Errorf("%w: duplicate attribute %s", ErrInvalidHeader, key)
		}
		attrs[key] = val.String()
	}
}
