// Package version holds the server build version.
package version

// Version is the server version, overridable at build time via
// -ldflags "-X github.com/yanoteapp/yanote-server/internal/version.Version=v1.2.3".
var Version = "dev"
