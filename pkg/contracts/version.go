// Package contracts holds the shared domain types and the build
// version surface of the trthcli tools.
package contracts

import (
	"fmt"
	"runtime"
)

// Version is the current version of the toolchain.
const Version = "0.3.0"

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// GetVersionString returns a formatted version string.
func GetVersionString() string {
	return fmt.Sprintf("trthcli v%s", Version)
}

// GetFullVersionString returns a detailed version string.
func GetFullVersionString() string {
	return fmt.Sprintf(
		"%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(),
		BuildTime,
		GitCommit,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
