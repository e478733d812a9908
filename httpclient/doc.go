// Package httpclient is the request pipeline behind every API call: it
// composes <root>/api/<service>/<version>/<path>?<query>, signs the request
// with Hawk when credentials are configured, and retries transport failures
// and 5xx responses with exponential backoff inside a bounded time budget.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    RootURL:     "https://tc.example.com",
//	    ServiceName: "auth",
//	    APIVersion:  "v1",
//	    Credentials: credentials.New(clientID, accessToken),
//	})
//
//	resp, err := client.Request(ctx, http.MethodGet, "clients/",
//	    httpclient.NewQuery("prefix", "project/"), nil)
//
// # Outcomes
//
// Each attempt is classified as success (2xx), retryable failure
// (transport error or 5xx) or terminal failure (anything else). 4xx
// responses are returned at once; retryable failures are retried until the
// budget in Config.Retry runs out, then the last failure is returned with
// BudgetExhausted set. A configured MaxAttempts reached first sets
// AttemptsExhausted instead.
//
//	if httpclient.IsNotFound(err) { ... }
//	if httpclient.IsRetryBudgetExhausted(err) { ... }
package httpclient
