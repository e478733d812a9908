// Package observability wires OpenTelemetry tracing and metrics for the
// client: OTLP/HTTP exporters installed as the global providers, and the
// instruments the HTTP pipeline records into.
//
//	shutdown, err := observability.Init(ctx, observability.Config{
//	    Enabled:     true,
//	    ServiceName: "tcapi",
//	    Endpoint:    "localhost:4318",
//	}, log)
//	defer shutdown(ctx)
package observability
