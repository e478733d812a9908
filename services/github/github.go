// Package github is a typed facade over the github integration service.
package github

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kbukum/tcclient/endpoint"
	"github.com/kbukum/tcclient/httpclient"
)

const (
	ServiceName = "github"
	APIVersion  = "v1"
)

// Routes is the github service API.
var Routes = endpoint.MustTable(ServiceName,
	endpoint.Route{Name: "ping", Method: http.MethodGet, Path: "ping"},
	endpoint.Route{Name: "githubWebHookConsumer", Method: http.MethodPost, Path: "github", Input: true},
	endpoint.Route{Name: "builds", Method: http.MethodGet, Path: "builds", Query: []string{"continuationToken", "limit", "organization", "repository", "sha"}, Output: true},
	endpoint.Route{Name: "badge", Method: http.MethodGet, Path: "repository/<owner>/<repo>/<branch>/badge.svg"},
	endpoint.Route{Name: "repository", Method: http.MethodGet, Path: "repository/<owner>/<repo>", Output: true},
	endpoint.Route{Name: "latest", Method: http.MethodGet, Path: "repository/<owner>/<repo>/<branch>/latest"},
	endpoint.Route{Name: "createStatus", Method: http.MethodPost, Path: "repository/<owner>/<repo>/statuses/<sha>", Input: true},
	endpoint.Route{Name: "createComment", Method: http.MethodPost, Path: "repository/<owner>/<repo>/issues/<number>/comments", Input: true},
)

// Github calls the github service.
type Github struct {
	c endpoint.Caller
}

// New wraps a caller already bound to the github service base URL.
func New(c endpoint.Caller) *Github {
	return &Github{c: c}
}

// NewFromConfig creates a client for the github service from cfg.
func NewFromConfig(cfg httpclient.Config) (*Github, error) {
	cfg.ServiceName = ServiceName
	if cfg.APIVersion == "" {
		cfg.APIVersion = APIVersion
	}
	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return New(c), nil
}

// BuildsOptions filters and pages Builds.
type BuildsOptions struct {
	ContinuationToken string
	Limit             string
	Organization      string
	Repository        string
	SHA               string
}

func (g *Github) invoke(ctx context.Context, name string, args endpoint.Args) (*httpclient.Response, error) {
	route, err := Routes.Lookup(name)
	if err != nil {
		return nil, err
	}
	return endpoint.Invoke(ctx, g.c, route, args)
}

func (g *Github) call(ctx context.Context, name string, args endpoint.Args) (json.RawMessage, error) {
	route, err := Routes.Lookup(name)
	if err != nil {
		return nil, err
	}
	return endpoint.Call[json.RawMessage](ctx, g.c, route, args)
}

func (g *Github) Ping(ctx context.Context) error {
	_, err := g.call(ctx, "ping", endpoint.Args{})
	return err
}

// GithubWebHookConsumer forwards a webhook event body.
func (g *Github) GithubWebHookConsumer(ctx context.Context, payload any) error {
	_, err := g.call(ctx, "githubWebHookConsumer", endpoint.Args{Body: payload})
	return err
}

// Builds lists recent builds.
func (g *Github) Builds(ctx context.Context, opts BuildsOptions) (json.RawMessage, error) {
	return g.call(ctx, "builds", endpoint.Args{Query: map[string]string{
		"continuationToken": opts.ContinuationToken,
		"limit":             opts.Limit,
		"organization":      opts.Organization,
		"repository":        opts.Repository,
		"sha":               opts.SHA,
	}})
}

// Badge returns the SVG status badge of a branch.
func (g *Github) Badge(ctx context.Context, owner, repo, branch string) ([]byte, error) {
	resp, err := g.invoke(ctx, "badge", endpoint.Args{Path: []string{owner, repo, branch}})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Repository reports whether the integration is installed for a repository.
func (g *Github) Repository(ctx context.Context, owner, repo string) (json.RawMessage, error) {
	return g.call(ctx, "repository", endpoint.Args{Path: []string{owner, repo}})
}

// Latest fetches the latest build of a branch. The service answers with a
// redirect to the task group, which the transport follows.
func (g *Github) Latest(ctx context.Context, owner, repo, branch string) error {
	_, err := g.invoke(ctx, "latest", endpoint.Args{Path: []string{owner, repo, branch}})
	return err
}

// CreateStatus sets a commit status.
func (g *Github) CreateStatus(ctx context.Context, owner, repo, sha string, payload any) error {
	_, err := g.call(ctx, "createStatus", endpoint.Args{Path: []string{owner, repo, sha}, Body: payload})
	return err
}

// CreateComment comments on an issue or pull request.
func (g *Github) CreateComment(ctx context.Context, owner, repo string, number int, payload any) error {
	_, err := g.call(ctx, "createComment", endpoint.Args{
		Path: []string{owner, repo, strconv.Itoa(number)},
		Body: payload,
	})
	return err
}
