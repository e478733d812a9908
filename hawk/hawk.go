package hawk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

// Scheme is the Authorization header scheme token.
const Scheme = "Hawk"

const (
	headerPrefix  = "hawk.1.header"
	payloadPrefix = "hawk.1.payload"
)

var (
	ErrNoHost             = errors.New("hawk: request URL has no host")
	ErrNoPort             = errors.New("hawk: request URL has no port for its scheme")
	ErrStreamBody         = errors.New("hawk: streaming body cannot be hashed")
	ErrMissingHeader      = errors.New("hawk: missing Authorization header")
	ErrInvalidHeader      = errors.New("hawk: invalid Authorization header")
	ErrInvalidAttribute   = errors.New("hawk: value cannot be carried in a header attribute")
	ErrUnknownCredentials = errors.New("hawk: unknown credentials")
	ErrMACMismatch        = errors.New("hawk: bad mac")
	ErrStaleTimestamp     = errors.New("hawk: stale timestamp")
	ErrReplayedNonce      = errors.New("hawk: nonce already used")
	ErrPayloadMismatch    = errors.New("hawk: payload hash mismatch")
)

var extEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// Artifacts are the inputs bound into a request MAC.
type Artifacts struct {
	Timestamp int64
	Nonce     string
	Method    string
	Host      string
	Port      int
	Path      string
	Hash      string
	Ext       string
}

// normalized renders the header normalization string the MAC is taken over.
func (a *Artifacts) normalized() string {
	var b strings.Builder
	b.WriteString(headerPrefix)
	b.WriteByte('\n')
	b.WriteString(strconv.FormatInt(a.Timestamp, 10))
	b.WriteByte('\n')
	b.WriteString(a.Nonce)
	b.WriteByte('\n')
	b.WriteString(strings.ToUpper(a.Method))
	b.WriteByte('\n')
	b.WriteString(a.Path)
	b.WriteByte('\n')
	b.WriteString(strings.ToLower(a.Host))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(a.Port))
	b.WriteByte('\n')
	b.WriteString(a.Hash)
	b.WriteByte('\n')
	b.WriteString(extEscaper.Replace(a.Ext))
	b.WriteByte('\n')
	return b.String()
}

// MAC computes the base64 HMAC-SHA256 of the artifacts under key.
func MAC(key []byte, a *Artifacts) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(a.normalized()))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// PayloadHash returns the base64 SHA-256 payload hash for a body declared
// with contentType. Media-type parameters are ignored.
func PayloadHash(contentType string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(payloadPrefix))
	h.Write([]byte{'\n'})
	h.Write([]byte(normalizeContentType(contentType)))
	h.Write([]byte{'\n'})
	h.Write(payload)
	h.Write([]byte{'\n'})
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// defaultPort maps a URL scheme to its well-known port, or 0.
func defaultPort(scheme string) int {
	switch strings.ToLower(scheme) {
	case "http", "ws":
		return 80
	case "https", "wss":
		return 443
	default:
		return 0
	}
}
