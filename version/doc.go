// Package version exposes the library's build version information.
//
// Version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/flowkit/version.Version=1.0.0"
package version
