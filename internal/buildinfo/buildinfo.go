// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// UserAgent is sent with every API request.
func UserAgent() string {
	return fmt.Sprintf("cursoragents/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
