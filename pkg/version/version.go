// Package version reports the build identity of the nmconn binaries.
package version

import "fmt"

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/nmconn/pkg/version.Version=v1.0.0 \
//	  -X github.com/newtron-network/nmconn/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/nmconn/pkg/version.BuildDate=2026-01-01T00:00:00Z"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string for display.
func Info() string {
	return fmt.Sprintf("%s (%s) built %s", Version, GitCommit, BuildDate)
}

// Banner is the one-line answer to "tool version".
func Banner(tool string) string {
	if Version == "dev" {
		return tool + " dev build (use 'make build' for version info)"
	}
	return tool + " " + Info()
}
