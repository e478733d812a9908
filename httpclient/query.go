package httpclient

import (
	"net/url"
	"strings"
)

// Pair is one query parameter.
type Pair struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Keys may repeat; order is
// preserved on the wire.
type Query []Pair

// NewQuery builds a Query from alternating keys and values.
func NewQuery(kv ...string) Query {
	q := make(Query, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		p := Pair{Key: kv[i]}
		if i+1 < len(kv) {
			p.Value = kv[i+1]
		}
		q = append(q, p)
	}
	return q
}

// Add returns q with key=value appended.
func (q Query) Add(key, value string) Query {
	return append(q, Pair{Key: key, Value: value})
}

// Encode renders the query string without the leading '?'. Unlike
// url.Values.Encode it neither sorts nor groups keys.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
