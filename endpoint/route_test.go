package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/tcclient/httpclient"
	"github.com/kbukum/tcclient/resilience"
)

var (
	roleRoute = Route{Name: "role", Method: http.MethodGet, Path: "roles/<roleId>", Output: true}
	listRoute = Route{
		Name:   "listClients",
		Method: http.MethodGet,
		Path:   "clients/",
		Query:  []string{"prefix", "continuationToken", "limit"},
		Output: true,
	}
	putRoute    = Route{Name: "createRole", Method: http.MethodPut, Path: "roles/<roleId>", Input: true, Output: true}
	deleteRoute = Route{Name: "deleteRole", Method: http.MethodDelete, Path: "roles/<roleId>"}
	s3Route     = Route{Name: "awsS3Credentials", Method: http.MethodGet, Path: "aws/s3/<level>/<bucket>/<prefix>", Query: []string{"format"}, Output: true}
)

func TestRoute_Params(t *testing.T) {
	got := s3Route.Params()
	want := []string{"level", "bucket", "prefix"}
	if len(got) != len(want) {
		t.Fatalf("Params() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Params()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if p := listRoute.Params(); len(p) != 0 {
		t.Errorf("expected no params, got %v", p)
	}
}

func TestRoute_Expand(t *testing.T) {
	tests := []struct {
		name    string
		route   Route
		values  []string
		want    string
		wantErr bool
	}{
		{"plain", roleRoute, []string{"admin"}, "roles/admin", false},
		{"slash escaped", roleRoute, []string{"repo:github.com/org/*"}, "roles/repo:github.com%2Forg%2F%2A", false},
		{"space escaped", roleRoute, []string{"a b"}, "roles/a%20b", false},
		{"multiple", s3Route, []string{"read-only", "bucket", "dir/file"}, "aws/s3/read-only/bucket/dir%2Ffile", false},
		{"no params", listRoute, nil, "clients/", false},
		{"missing", s3Route, []string{"read-only"}, "", true},
		{"too many", roleRoute, []string{"a", "b"}, "", true},
		{"empty value", roleRoute, []string{""}, "", true},
		{"dot", roleRoute, []string{"."}, "", true},
		{"dot dot", roleRoute, []string{".."}, "", true},
		{"dots inside value", roleRoute, []string{"a..b"}, "roles/a..b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.route.Expand(tt.values...)
			if tt.wantErr {
				if !errors.Is(err, ErrArgs) {
					t.Fatalf("expected ErrArgs, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoute_QueryFor(t *testing.T) {
	q, err := listRoute.QueryFor(map[string]string{"limit": "10", "prefix": "p", "continuationToken": ""})
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Encode(); got != "prefix=p&limit=10" {
		t.Errorf("Encode() = %q", got)
	}

	q, err = listRoute.QueryFor(nil)
	if err != nil || len(q) != 0 {
		t.Errorf("expected empty query, got %v, %v", q, err)
	}

	if _, err := listRoute.QueryFor(map[string]string{"bogus": "1"}); !errors.Is(err, ErrArgs) {
		t.Errorf("expected ErrArgs for unknown parameter, got %v", err)
	}
}

type recordingCaller struct {
	method, path string
	query        httpclient.Query
	body         any
	resp         *httpclient.Response
}

func (c *recordingCaller) Request(_ context.Context, method, path string, query httpclient.Query, body any) (*httpclient.Response, error) {
	c.method, c.path, c.query, c.body = method, path, query, body
	return c.resp, nil
}

func TestInvoke(t *testing.T) {
	c := &recordingCaller{resp: &httpclient.Response{StatusCode: http.StatusOK, Body: []byte(`{"roleId":"admin"}`)}}

	out, err := Call[map[string]string](context.Background(), c, putRoute, Args{
		Path: []string{"admin"},
		Body: map[string]any{"scopes": []string{"*"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.method != http.MethodPut || c.path != "roles/admin" || c.body == nil {
		t.Errorf("unexpected call %s %s %v", c.method, c.path, c.body)
	}
	if out["roleId"] != "admin" {
		t.Errorf("unexpected output %v", out)
	}
}

func TestInvoke_BodyRules(t *testing.T) {
	c := &recordingCaller{resp: &httpclient.Response{StatusCode: http.StatusOK}}
	ctx := context.Background()

	if _, err := Invoke(ctx, c, putRoute, Args{Path: []string{"r"}}); !errors.Is(err, ErrArgs) {
		t.Errorf("expected missing body error, got %v", err)
	}
	if _, err := Invoke(ctx, c, roleRoute, Args{Path: []string{"r"}, Body: "x"}); !errors.Is(err, ErrArgs) {
		t.Errorf("expected unexpected body error, got %v", err)
	}
	if c.method != "" {
		t.Error("invalid arguments must not reach the caller")
	}
}

func TestCall_NoOutputDiscardsBody(t *testing.T) {
	c := &recordingCaller{resp: &httpclient.Response{StatusCode: http.StatusOK, Body: []byte("not json")}}
	out, err := Call[json.RawMessage](context.Background(), c, deleteRoute, Args{Path: []string{"r"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Errorf("expected zero output, got %s", out)
	}
}

func TestCall_ThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/auth/v1/aws/s3/read-only/b/a%2Fb" || r.URL.RawQuery != "format=iam-role-compat" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"credentials":{}}`))
	}))
	defer srv.Close()

	c, err := httpclient.New(httpclient.Config{
		RootURL:     srv.URL,
		ServiceName: "auth",
		Retry:       resilience.RetryConfig{InitialBackoff: time.Millisecond, MaxElapsed: 50 * time.Millisecond},
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := Call[json.RawMessage](context.Background(), c, s3Route, Args{
		Path:  []string{"read-only", "b", "a/b"},
		Query: map[string]string{"format": "iam-role-compat"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"credentials":{}}` {
		t.Errorf("unexpected output %s", out)
	}
}

func TestTable(t *testing.T) {
	table, err := NewTable("auth", roleRoute, listRoute, putRoute)
	if err != nil {
		t.Fatal(err)
	}
	if table.Service() != "auth" {
		t.Errorf("Service() = %q", table.Service())
	}
	names := table.Names()
	if len(names) != 3 || names[0] != "createRole" || names[2] != "role" {
		t.Errorf("Names() = %v", names)
	}
	if r, err := table.Lookup("role"); err != nil || r.Path != roleRoute.Path {
		t.Errorf("Lookup(role) = %v, %v", r, err)
	}
	if _, err := table.Lookup("nope"); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("expected ErrUnknownRoute, got %v", err)
	}

	tests := []struct {
		name   string
		routes []Route
	}{
		{"duplicate", []Route{roleRoute, roleRoute}},
		{"absolute path", []Route{{Name: "x", Method: http.MethodGet, Path: "/x"}}},
		{"no method", []Route{{Name: "x", Path: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable("svc", tt.routes...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
