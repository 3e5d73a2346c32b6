// Package version holds build-time version information.
package version

// Set via ldflags during build:
//
//	-X github.com/tacogips/autopilot/internal/version.Version=v1.2.3
//	-X github.com/tacogips/autopilot/internal/version.GitCommit=$(git rev-parse HEAD)
//	-X github.com/tacogips/autopilot/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
