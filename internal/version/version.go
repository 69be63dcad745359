// Package version exposes build metadata injected through -ldflags.
package version

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/oshokin/gamestart-auth/internal/version.Version=1.2.0"
//
//nolint:gochecknoglobals // Set by the linker.
var (
	Version   = "0.1.0"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns the version number only.
func Short() string {
	return Version
}

// Full returns the version with commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
