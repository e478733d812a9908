package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/kbukum/tcclient/httpclient"
	"github.com/kbukum/tcclient/httpclient/rest"
)

// Caller issues one logical call. *httpclient.Client implements it.
type Caller = rest.Requester

var (
	// ErrUnknownRoute is returned by Table.Lookup for a missing name.
	ErrUnknownRoute = errors.New("endpoint: unknown route")
	// ErrArgs reports arguments that do not fit the route.
	ErrArgs = errors.New("endpoint: invalid arguments")
)

// Route is one API method of a service.
type Route struct {
	Name   string
	Method string
	// Path is relative to the service base URL, with <param> placeholders.
	Path string
	// Query lists the optional query parameters the method accepts.
	Query []string
	// Input is true when the method takes a JSON body.
	Input bool
	// Output is true when the method returns a JSON body; otherwise the
	// response body is discarded.
	Output bool
}

// Args are the values for one invocation.
type Args struct {
	// Path holds the path parameter values in template order.
	Path []string
	// Query holds optional query values keyed by parameter name.
	Query map[string]string
	Body  any
}

// Params returns the placeholder names of the path template, in order.
func (r Route) Params() []string {
	var names []string
	for _, seg := range strings.Split(r.Path, "/") {
		if name, ok := placeholder(seg); ok {
			names = append(names, name)
		}
	}
	return names
}

// Expand substitutes path parameter values into the template. Every value
// is escaped as a single path segment, so "a/b" becomes "a%2Fb".
func (r Route) Expand(values ...string) (string, error) {
	segs := strings.Split(r.Path, "/")
	i := 0
	for n, seg := range segs {
		name, ok := placeholder(seg)
		if !ok {
			continue
		}
		if i >= len(values) {
			return "", fmt.Errorf("%w: %s: missing path parameter %q", ErrArgs, r.Name, name)
		}
		if values[i] == "" {
			return "", fmt.Errorf("%w: %s: empty path parameter %q", ErrArgs, r.Name, name)
		}
		// PathEscape keeps dot segments, which would be resolved away.
		if values[i] == "." || values[i] == ".." {
			return "", fmt.Errorf("%w: %s: path parameter %q must not be a dot segment", ErrArgs, r.Name, name)
		}
		segs[n] = url.PathEscape(values[i])
		i++
	}
	if i != len(values) {
		return "", fmt.Errorf("%w: %s: expected %d path parameters, got %d", ErrArgs, r.Name, i, len(values))
	}
	return strings.Join(segs, "/"), nil
}

// QueryFor builds the query string for values. Parameters are emitted in
// the order the route declares them and only when non-empty.
func (r Route) QueryFor(values map[string]string) (httpclient.Query, error) {
	for k := range values {
		if !r.acceptsQuery(k) {
			return nil, fmt.Errorf("%w: %s: unknown query parameter %q", ErrArgs, r.Name, k)
		}
	}
	var q httpclient.Query
	for _, k := range r.Query {
		if v := values[k]; v != "" {
			q = q.Add(k, v)
		}
	}
	return q, nil
}

func (r Route) acceptsQuery(name string) bool {
	for _, k := range r.Query {
		if k == name {
			return true
		}
	}
	return false
}

// Invoke calls route through c and returns the raw response.
func Invoke(ctx context.Context, c Caller, route Route, args Args) (*httpclient.Response, error) {
	path, err := route.Expand(args.Path...)
	if err != nil {
		return nil, err
	}
	query, err := route.QueryFor(args.Query)
	if err != nil {
		return nil, err
	}
	switch {
	case route.Input && args.Body == nil:
		return nil, fmt.Errorf("%w: %s: request body required", ErrArgs, route.Name)
	case !route.Input && args.Body != nil:
		return nil, fmt.Errorf("%w: %s: method takes no request body", ErrArgs, route.Name)
	}
	return c.Request(ctx, route.Method, path, query, args.Body)
}

// Call invokes route and decodes the JSON response into T. For routes
// without output the body is discarded and the zero T returned.
func Call[T any](ctx context.Context, c Caller, route Route, args Args) (T, error) {
	var zero T
	resp, err := Invoke(ctx, c, route, args)
	if err != nil {
		return zero, err
	}
	if !route.Output {
		return zero, nil
	}
	return rest.Decode[T](resp)
}

// Table indexes the routes of one service by name.
type Table struct {
	service string
	routes  map[string]Route
}

// NewTable builds a table, rejecting duplicate names and malformed routes.
func NewTable(service string, routes ...Route) (*Table, error) {
	t := &Table{service: service, routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		if r.Name == "" || r.Method == "" {
			return nil, fmt.Errorf("endpoint: %s: route %q needs a name and a method", service, r.Path)
		}
		if strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("endpoint: %s: route %s: path must be relative", service, r.Name)
		}
		if _, dup := t.routes[r.Name]; dup {
			return nil, fmt.Errorf("endpoint: %s: duplicate route %s", service, r.Name)
		}
		t.routes[r.Name] = r
	}
	return t, nil
}

// MustTable is NewTable for package-level route tables.
func MustTable(service string, routes ...Route) *Table {
	t, err := NewTable(service, routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Service is the service name the table belongs to.
func (t *Table) Service() string { return t.service }

// Lookup returns the route called name.
func (t *Table) Lookup(name string) (Route, error) {
	r, ok := t.routes[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s.%s", ErrUnknownRoute, t.service, name)
	}
	return r, nil
}

// Names lists the route names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.routes))
	for n := range t.routes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func placeholder(seg string) (string, bool) {
	if len(seg) > 2 && seg[0] == '<' && seg[len(seg)-1] == '>' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}
