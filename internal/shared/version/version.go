// Package version holds the tool version, overridable at build time
// via -ldflags "-X hooklint/internal/shared/version.Version=...".
package version

var Version = "0.1.0"
