// Package version reports the build version of extkit binaries.
//
//	go build -ldflags "-X github.com/kbukum/extkit/version.Version=1.0.0" ./cmd/extkit
package version
