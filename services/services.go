// Package services registers the route tables of the services with typed
// facades, for callers that address methods by name.
package services

import (
	"sort"

	"github.com/kbukum/tcclient/endpoint"
	"github.com/kbukum/tcclient/services/auth"
	"github.com/kbukum/tcclient/services/github"
)

var tables = map[string]*endpoint.Table{
	auth.ServiceName:   auth.Routes,
	github.ServiceName: github.Routes,
}

// Lookup returns the route table of service.
func Lookup(service string) (*endpoint.Table, bool) {
	t, ok := tables[service]
	return t, ok
}

// Names lists the known services.
func Names() []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
