// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/gangsheet-builders/order-actions/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/gangsheet-builders/order-actions/internal/buildinfo.Commit=...
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
// Inject via: -X github.com/gangsheet-builders/order-actions/internal/buildinfo.BuildDate=...
var BuildDate = ""

// Release returns the release identifier reported to Sentry and /readyz.
// Falls back to "dev" for local builds without ldflags.
func Release() string {
	switch {
	case Version != "" && Commit != "":
		return Version + "+" + shortCommit(Commit)
	case Version != "":
		return Version
	case Commit != "":
		return shortCommit(Commit)
	default:
		return "dev"
	}
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
