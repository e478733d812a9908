// Package auth is a typed facade over the auth service: clients, roles,
// scope expansion and the cloud credential endpoints.
package auth

import (
	"context"
	"encoding/json"

	"github.com/kbukum/tcclient/endpoint"
	"github.com/kbukum/tcclient/httpclient"
)

// Auth calls the auth service. Request and response bodies are passed
// through as JSON.
type Auth struct {
	c endpoint.Caller
}

// New wraps a caller already bound to the auth service base URL.
func New(c endpoint.Caller) *Auth {
	return &Auth{c: c}
}

// NewFromConfig creates a client for the auth service from cfg, overriding
// its service name and defaulting its API version.
func NewFromConfig(cfg httpclient.Config) (*Auth, error) {
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

// ListClientsOptions filters and pages ListClients.
type ListClientsOptions struct {
	Prefix            string
	ContinuationToken string
	Limit             string
}

// PageOptions pages a listing.
type PageOptions struct {
	ContinuationToken string
	Limit             string
}

func (a *Auth) call(ctx context.Context, name string, body any, query map[string]string, path ...string) (json.RawMessage, error) {
	route, err := Routes.Lookup(name)
	if err != nil {
		return nil, err
	}
	return endpoint.Call[json.RawMessage](ctx, a.c, route, endpoint.Args{Path: path, Query: query, Body: body})
}

// Ping checks that the service is up.
func (a *Auth) Ping(ctx context.Context) error {
	_, err := a.call(ctx, "ping", nil, nil)
	return err
}

// ListClients lists clients, optionally those whose id starts with a prefix.
func (a *Auth) ListClients(ctx context.Context, opts ListClientsOptions) (json.RawMessage, error) {
	return a.call(ctx, "listClients", nil, map[string]string{
		"prefix":            opts.Prefix,
		"continuationToken": opts.ContinuationToken,
		"limit":             opts.Limit,
	})
}

// Client gets a client.
func (a *Auth) Client(ctx context.Context, clientID string) (json.RawMessage, error) {
	return a.call(ctx, "client", nil, nil, clientID)
}

// CreateClient creates a client; the response carries its access token.
func (a *Auth) CreateClient(ctx context.Context, clientID string, payload any) (json.RawMessage, error) {
	return a.call(ctx, "createClient", payload, nil, clientID)
}

// ResetAccessToken issues a new access token for a client.
func (a *Auth) ResetAccessToken(ctx context.Context, clientID string) (json.RawMessage, error) {
	return a.call(ctx, "resetAccessToken", nil, nil, clientID)
}

// UpdateClient updates a client's description, expiry and scopes.
func (a *Auth) UpdateClient(ctx context.Context, clientID string, payload any) (json.RawMessage, error) {
	return a.call(ctx, "updateClient", payload, nil, clientID)
}

func (a *Auth) EnableClient(ctx context.Context, clientID string) (json.RawMessage, error) {
	return a.call(ctx, "enableClient", nil, nil, clientID)
}

func (a *Auth) DisableClient(ctx context.Context, clientID string) (json.RawMessage, error) {
	return a.call(ctx, "disableClient", nil, nil, clientID)
}

// DeleteClient deletes a client. Deleting a missing client succeeds.
func (a *Auth) DeleteClient(ctx context.Context, clientID string) error {
	_, err := a.call(ctx, "deleteClient", nil, nil, clientID)
	return err
}

// ListRoles returns every role in a single response.
func (a *Auth) ListRoles(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, "listRoles", nil, nil)
}

// ListRoles2 pages through roles.
func (a *Auth) ListRoles2(ctx context.Context, opts PageOptions) (json.RawMessage, error) {
	return a.call(ctx, "listRoles2", nil, opts.query())
}

// ListRoleIDs pages through role ids.
func (a *Auth) ListRoleIDs(ctx context.Context, opts PageOptions) (json.RawMessage, error) {
	return a.call(ctx, "listRoleIds", nil, opts.query())
}

func (a *Auth) Role(ctx context.Context, roleID string) (json.RawMessage, error) {
	return a.call(ctx, "role", nil, nil, roleID)
}

func (a *Auth) CreateRole(ctx context.Context, roleID string, payload any) (json.RawMessage, error) {
	return a.call(ctx, "createRole", payload, nil, roleID)
}

func (a *Auth) UpdateRole(ctx context.Context, roleID string, payload any) (json.RawMessage, error) {
	return a.call(ctx, "updateRole", payload, nil, roleID)
}

func (a *Auth) DeleteRole(ctx context.Context, roleID string) error {
	_, err := a.call(ctx, "deleteRole", nil, nil, roleID)
	return err
}

// ExpandScopes returns the expansion of a scope set through roles.
func (a *Auth) ExpandScopes(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.call(ctx, "expandScopes", payload, nil)
}

// CurrentScopes returns the expanded scopes of the calling credentials.
func (a *Auth) CurrentScopes(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, "currentScopes", nil, nil)
}

// AWSS3Credentials gets temporary AWS credentials for level (read-only or
// read-write) on bucket/prefix. format is optional.
func (a *Auth) AWSS3Credentials(ctx context.Context, level, bucket, prefix, format string) (json.RawMessage, error) {
	return a.call(ctx, "awsS3Credentials", nil, map[string]string{"format": format}, level, bucket, prefix)
}

func (a *Auth) AzureAccounts(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, "azureAccounts", nil, nil)
}

func (a *Auth) AzureTables(ctx context.Context, account, continuationToken string) (json.RawMessage, error) {
	return a.call(ctx, "azureTables", nil, map[string]string{"continuationToken": continuationToken}, account)
}

// AzureTableSAS gets a shared access signature for an Azure table.
func (a *Auth) AzureTableSAS(ctx context.Context, account, table, level string) (json.RawMessage, error) {
	return a.call(ctx, "azureTableSAS", nil, nil, account, table, level)
}

func (a *Auth) AzureContainers(ctx context.Context, account, continuationToken string) (json.RawMessage, error) {
	return a.call(ctx, "azureContainers", nil, map[string]string{"continuationToken": continuationToken}, account)
}

// AzureContainerSAS gets a shared access signature for a blob container.
func (a *Auth) AzureContainerSAS(ctx context.Context, account, container, level string) (json.RawMessage, error) {
	return a.call(ctx, "azureContainerSAS", nil, nil, account, container, level)
}

func (a *Auth) SentryDSN(ctx context.Context, project string) (json.RawMessage, error) {
	return a.call(ctx, "sentryDSN", nil, nil, project)
}

// WebsocktunnelToken gets a token for the websocktunnel audience.
func (a *Auth) WebsocktunnelToken(ctx context.Context, audience, clientID string) (json.RawMessage, error) {
	return a.call(ctx, "websocktunnelToken", nil, nil, audience, clientID)
}

// GCPCredentials gets temporary credentials for a GCP service account.
func (a *Auth) GCPCredentials(ctx context.Context, projectID, serviceAccount string) (json.RawMessage, error) {
	return a.call(ctx, "gcpCredentials", nil, nil, projectID, serviceAccount)
}

// AuthenticateHawk asks the service to validate a Hawk request on behalf
// of another service.
func (a *Auth) AuthenticateHawk(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.call(ctx, "authenticateHawk", payload, nil)
}

// TestAuthenticate checks the calling credentials against the scopes in
// payload using the service's test clients.
func (a *Auth) TestAuthenticate(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.call(ctx, "testAuthenticate", payload, nil)
}

func (a *Auth) TestAuthenticateGet(ctx context.Context) (json.RawMessage, error) {
	return a.call(ctx, "testAuthenticateGet", nil, nil)
}

func (o PageOptions) query() map[string]string {
	return map[string]string{"continuationToken": o.ContinuationToken, "limit": o.Limit}
}
