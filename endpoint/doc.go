// Package endpoint describes service API methods as declarative routes and
// invokes them through any [Caller].
//
// A route path is a template relative to the service base URL. Parameters
// are written as <name> and replaced by their path-escaped values:
//
//	var getRole = endpoint.Route{
//		Name:   "role",
//		Method: http.MethodGet,
//		Path:   "roles/<roleId>",
//		Output: true,
//	}
//
//	role, err := endpoint.Call[json.RawMessage](ctx, client, getRole, endpoint.Args{
//		Path: []string{"repo:github.com/org/*"},
//	})
//
// Optional query parameters are named on the route and sent only when set,
// in the order the route declares them.
package endpoint
