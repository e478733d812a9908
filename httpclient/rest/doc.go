// Package rest adds typed JSON helpers on top of the request pipeline:
//
//	clients, err := rest.Get[ListClientsResponse](ctx, client, "clients/",
//	    rest.WithQuery(httpclient.NewQuery("prefix", "project/")))
//
//	role, err := rest.Post[Role](ctx, client, "roles/"+url.PathEscape(id), input)
//
// Any value with a Request method matching httpclient.Client can be used
// as the Requester.
package rest
