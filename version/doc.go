// Package version carries the client's build version and derives the
// User-Agent string from it.
//
// The version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/tcclient/version.Version=1.0.0"
package version
