package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/kbukum/tcclient/config"
	"github.com/kbukum/tcclient/endpoint"
	"github.com/kbukum/tcclient/httpclient"
	"github.com/kbukum/tcclient/logger"
	"github.com/kbukum/tcclient/observability"
	"github.com/kbukum/tcclient/services"
	"github.com/kbukum/tcclient/version"
)

func commands(ui cli.Ui) map[string]cli.CommandFactory {
	base := func() *baseCommand { return &baseCommand{ui: ui} }
	return map[string]cli.CommandFactory{
		"ping": func() (cli.Command, error) {
			return &pingCommand{baseCommand: base()}, nil
		},
		"request": func() (cli.Command, error) {
			return &requestCommand{baseCommand: base()}, nil
		},
		"call": func() (cli.Command, error) {
			return &callCommand{baseCommand: base()}, nil
		},
		"routes": func() (cli.Command, error) {
			return &routesCommand{baseCommand: base()}, nil
		},
		"version": func() (cli.Command, error) {
			return &versionCommand{ui: ui}, nil
		},
	}
}

// baseCommand holds the flags and setup shared by the API commands.
type baseCommand struct {
	ui cli.Ui

	flagConfig  string
	flagEnv     string
	flagVersion string
	flagQuery   queryFlag
	flagBody    string
}

func (c *baseCommand) flags(name string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.StringVar(&c.flagConfig, "config", "", "Path to a YAML settings file.")
	f.StringVar(&c.flagEnv, "env", "", "Path to a .env file.")
	f.StringVar(&c.flagVersion, "api-version", "v1", "API version of the service.")
	return f
}

func (c *baseCommand) requestFlags(f *flag.FlagSet) {
	f.Var(&c.flagQuery, "query", "Query parameter as key=value. May be repeated.")
	f.StringVar(&c.flagBody, "body", "", "JSON request body, or @file to read it from a file.")
}

// parse accepts flags both before and after the n positional arguments.
func (c *baseCommand) parse(f *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	rest := f.Args()
	if len(rest) < n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(rest))
	}
	pos := append([]string{}, rest[:n]...)
	for extra := rest[n:]; len(extra) > 0; extra = f.Args() {
		if !strings.HasPrefix(extra[0], "-") {
			pos = append(pos, extra[0])
			if err := f.Parse(extra[1:]); err != nil {
				return nil, err
			}
			continue
		}
		if err := f.Parse(extra); err != nil {
			return nil, err
		}
	}
	return pos, nil
}

// session loads settings and builds a client for service. The returned
// function flushes telemetry.
func (c *baseCommand) session(ctx context.Context, service string) (*httpclient.Client, func(), error) {
	var opts []config.LoaderOption
	if c.flagConfig != "" {
		opts = append(opts, config.WithConfigFile(c.flagConfig))
	}
	if c.flagEnv != "" {
		opts = append(opts, config.WithEnvFile(c.flagEnv))
	}
	s, err := config.Load(opts...)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(&s.Logging, "tcapi")
	if s.Telemetry.ServiceName == "" {
		s.Telemetry.ServiceName = "tcapi"
	}
	if s.Telemetry.ServiceVersion == "" {
		s.Telemetry.ServiceVersion = version.GetShortVersion()
	}
	shutdown, err := observability.Init(ctx, s.Telemetry, log)
	if err != nil {
		return nil, nil, err
	}
	done := func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}

	cfg := s.ClientConfig(service, c.flagVersion)
	cfg.Logger = log
	client, err := httpclient.New(cfg)
	if err != nil {
		done()
		return nil, nil, err
	}
	log.Debug("client ready", logger.Fields(
		logger.FieldServiceURL, client.BaseURL().String(),
		"authenticated", client.Authenticated(),
	))
	return client, done, nil
}

func (c *baseCommand) body() (any, error) {
	switch {
	case c.flagBody == "":
		return nil, nil
	case strings.HasPrefix(c.flagBody, "@"):
		data, err := os.ReadFile(c.flagBody[1:])
		if err != nil {
			return nil, err
		}
		return checkJSON(data)
	default:
		return checkJSON([]byte(c.flagBody))
	}
}

func checkJSON(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// output writes body to the UI, indented when it is JSON.
func (c *baseCommand) output(body []byte) {
	if len(bytes.TrimSpace(body)) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		c.ui.Output(string(body))
		return
	}
	c.ui.Output(buf.String())
}

func (c *baseCommand) fail(err error) int {
	c.ui.Error(err.Error())
	return 1
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// queryFlag collects repeated -query key=value flags in order.
type queryFlag httpclient.Query

func (q *queryFlag) String() string {
	return httpclient.Query(*q).Encode()
}

func (q *queryFlag) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	if !ok || k == "" {
		return fmt.Errorf("query %q must be key=value", v)
	}
	*q = queryFlag(httpclient.Query(*q).Add(k, val))
	return nil
}

type pingCommand struct {
	*baseCommand
}

func (c *pingCommand) Synopsis() string { return "Check that a service is up" }

func (c *pingCommand) Help() string {
	return `Usage: tcapi ping [options] <service>

  Calls GET <root>/api/<service>/<version>/ping.

Options:
  -config=<file>       YAML settings file.
  -env=<file>          .env file.
  -api-version=<v>     API version (default v1).`
}

func (c *pingCommand) Run(args []string) int {
	pos, err := c.parse(c.flags("ping"), args, 1)
	if err != nil {
		c.ui.Error(err.Error())
		return cli.RunResultHelp
	}
	ctx, cancel := interruptible()
	defer cancel()

	client, done, err := c.session(ctx, pos[0])
	if err != nil {
		return c.fail(err)
	}
	defer done()

	route := endpoint.Route{Name: "ping", Method: http.MethodGet, Path: "ping"}
	if table, ok := services.Lookup(pos[0]); ok {
		if r, err := table.Lookup("ping"); err == nil {
			route = r
		}
	}
	if _, err := endpoint.Invoke(ctx, client, route, endpoint.Args{}); err != nil {
		return c.fail(err)
	}
	c.ui.Output(fmt.Sprintf("%s: ok", pos[0]))
	return 0
}

type requestCommand struct {
	*baseCommand
}

func (c *requestCommand) Synopsis() string { return "Send a request to any service path" }

func (c *requestCommand) Help() string {
	return `Usage: tcapi request [options] <service> <METHOD> <path>

  Sends METHOD to <root>/api/<service>/<version>/<path>, signed when
  credentials are configured, and prints the response body.

Options:
  -query=key=value     Query parameter, repeatable, sent in order.
  -body=<json|@file>   JSON request body.
  -config=<file>       YAML settings file.
  -env=<file>          .env file.
  -api-version=<v>     API version (default v1).`
}

func (c *requestCommand) Run(args []string) int {
	f := c.flags("request")
	c.requestFlags(f)
	pos, err := c.parse(f, args, 3)
	if err != nil {
		c.ui.Error(err.Error())
		return cli.RunResultHelp
	}
	body, err := c.body()
	if err != nil {
		return c.fail(err)
	}

	ctx, cancel := interruptible()
	defer cancel()
	client, done, err := c.session(ctx, pos[0])
	if err != nil {
		return c.fail(err)
	}
	defer done()

	resp, err := client.Request(ctx, strings.ToUpper(pos[1]), pos[2], httpclient.Query(c.flagQuery), body)
	if err != nil {
		return c.fail(err)
	}
	c.output(resp.Body)
	return 0
}

type callCommand struct {
	*baseCommand
}

func (c *callCommand) Synopsis() string { return "Call a named API method" }

func (c *callCommand) Help() string {
	return `Usage: tcapi call [options] <service> <method> [path parameters...]

  Calls a method from the service's route table, e.g.

    tcapi call auth role repo:github.com/org/*
    tcapi call auth listClients -query prefix=project/

  Run "tcapi routes <service>" to list methods.

Options:
  -query=key=value     Optional query parameter, repeatable.
  -body=<json|@file>   JSON request body.`
}

func (c *callCommand) Run(args []string) int {
	f := c.flags("call")
	c.requestFlags(f)
	pos, err := c.parse(f, args, 2)
	if err != nil {
		c.ui.Error(err.Error())
		return cli.RunResultHelp
	}
	table, ok := services.Lookup(pos[0])
	if !ok {
		return c.fail(fmt.Errorf("unknown service %q (known: %s)", pos[0], strings.Join(services.Names(), ", ")))
	}
	route, err := table.Lookup(pos[1])
	if err != nil {
		return c.fail(err)
	}
	body, err := c.body()
	if err != nil {
		return c.fail(err)
	}
	query := make(map[string]string, len(c.flagQuery))
	for _, p := range c.flagQuery {
		query[p.Key] = p.Value
	}

	ctx, cancel := interruptible()
	defer cancel()
	client, done, err := c.session(ctx, pos[0])
	if err != nil {
		return c.fail(err)
	}
	defer done()

	resp, err := endpoint.Invoke(ctx, client, route, endpoint.Args{Path: pos[2:], Query: query, Body: body})
	if err != nil {
		return c.fail(err)
	}
	if route.Output {
		c.output(resp.Body)
	}
	return 0
}

type routesCommand struct {
	*baseCommand
}

func (c *routesCommand) Synopsis() string { return "List the methods of a service" }

func (c *routesCommand) Help() string {
	return "Usage: tcapi routes <service>"
}

func (c *routesCommand) Run(args []string) int {
	if len(args) != 1 {
		return cli.RunResultHelp
	}
	table, ok := services.Lookup(args[0])
	if !ok {
		return c.fail(fmt.Errorf("unknown service %q (known: %s)", args[0], strings.Join(services.Names(), ", ")))
	}
	for _, name := range table.Names() {
		r, _ := table.Lookup(name)
		line := fmt.Sprintf("%-22s %-6s %s", name, r.Method, r.Path)
		if len(r.Query) > 0 {
			line += " ?" + strings.Join(r.Query, "&")
		}
		c.ui.Output(line)
	}
	return 0
}

type versionCommand struct {
	ui cli.Ui
}

func (c *versionCommand) Synopsis() string { return "Print the version" }
func (c *versionCommand) Help() string     { return "Usage: tcapi version" }

func (c *versionCommand) Run([]string) int {
	info := version.GetVersionInfo()
	c.ui.Output(fmt.Sprintf("%s %s (%s, built %s)", version.Product, info.Version, info.GitCommit, info.BuildTime))
	return 0
}
