package auth

import (
	"net/http"

	"github.com/kbukum/tcclient/endpoint"
)

const (
	// ServiceName is the path component of the auth service.
	ServiceName = "auth"
	// APIVersion is the API version the routes describe.
	APIVersion = "v1"
)

var page = []string{"continuationToken", "limit"}

// Routes is the auth service API.
var Routes = endpoint.MustTable(ServiceName,
	endpoint.Route{Name: "ping", Method: http.MethodGet, Path: "ping"},

	endpoint.Route{Name: "listClients", Method: http.MethodGet, Path: "clients/", Query: []string{"prefix", "continuationToken", "limit"}, Output: true},
	endpoint.Route{Name: "client", Method: http.MethodGet, Path: "clients/<clientId>", Output: true},
	endpoint.Route{Name: "createClient", Method: http.MethodPut, Path: "clients/<clientId>", Input: true, Output: true},
	endpoint.Route{Name: "resetAccessToken", Method: http.MethodPost, Path: "clients/<clientId>/reset", Output: true},
	endpoint.Route{Name: "updateClient", Method: http.MethodPost, Path: "clients/<clientId>", Input: true, Output: true},
	endpoint.Route{Name: "enableClient", Method: http.MethodPost, Path: "clients/<clientId>/enable", Output: true},
	endpoint.Route{Name: "disableClient", Method: http.MethodPost, Path: "clients/<clientId>/disable", Output: true},
	endpoint.Route{Name: "deleteClient", Method: http.MethodDelete, Path: "clients/<clientId>"},

	endpoint.Route{Name: "listRoles", Method: http.MethodGet, Path: "roles/", Output: true},
	endpoint.Route{Name: "listRoles2", Method: http.MethodGet, Path: "roles2/", Query: page, Output: true},
	endpoint.Route{Name: "listRoleIds", Method: http.MethodGet, Path: "roleids/", Query: page, Output: true},
	endpoint.Route{Name: "role", Method: http.MethodGet, Path: "roles/<roleId>", Output: true},
	endpoint.Route{Name: "createRole", Method: http.MethodPut, Path: "roles/<roleId>", Input: true, Output: true},
	endpoint.Route{Name: "updateRole", Method: http.MethodPost, Path: "roles/<roleId>", Input: true, Output: true},
	endpoint.Route{Name: "deleteRole", Method: http.MethodDelete, Path: "roles/<roleId>"},

	endpoint.Route{Name: "expandScopes", Method: http.MethodPost, Path: "scopes/expand", Input: true, Output: true},
	endpoint.Route{Name: "currentScopes", Method: http.MethodGet, Path: "scopes/current", Output: true},

	endpoint.Route{Name: "awsS3Credentials", Method: http.MethodGet, Path: "aws/s3/<level>/<bucket>/<prefix>", Query: []string{"format"}, Output: true},
	endpoint.Route{Name: "azureAccounts", Method: http.MethodGet, Path: "azure/accounts", Output: true},
	endpoint.Route{Name: "azureTables", Method: http.MethodGet, Path: "azure/<account>/tables", Query: []string{"continuationToken"}, Output: true},
	endpoint.Route{Name: "azureTableSAS", Method: http.MethodGet, Path: "azure/<account>/table/<table>/<level>", Output: true},
	endpoint.Route{Name: "azureContainers", Method: http.MethodGet, Path: "azure/<account>/containers", Query: []string{"continuationToken"}, Output: true},
	endpoint.Route{Name: "azureContainerSAS", Method: http.MethodGet, Path: "azure/<account>/containers/<container>/<level>", Output: true},
	endpoint.Route{Name: "sentryDSN", Method: http.MethodGet, Path: "sentry/<project>/dsn", Output: true},
	endpoint.Route{Name: "websocktunnelToken", Method: http.MethodGet, Path: "websocktunnel/<wstAudience>/<wstClient>", Output: true},
	endpoint.Route{Name: "gcpCredentials", Method: http.MethodGet, Path: "gcp/credentials/<projectId>/<serviceAccount>", Output: true},

	endpoint.Route{Name: "authenticateHawk", Method: http.MethodPost, Path: "authenticate-hawk", Input: true, Output: true},
	endpoint.Route{Name: "testAuthenticate", Method: http.MethodPost, Path: "test-authenticate", Input: true, Output: true},
	endpoint.Route{Name: "testAuthenticateGet", Method: http.MethodGet, Path: "test-authenticate-get/", Output: true},
)
