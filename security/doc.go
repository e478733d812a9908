// Package security builds the client-side TLS configuration used by the
// HTTP transport when talking to a deployment with a private CA or mTLS.
//
//	cfg := security.TLSConfig{CAFile: "/etc/tc/ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
