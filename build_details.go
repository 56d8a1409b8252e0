package oasbind

import (
	"fmt"
	"runtime"
)

var (
	// version is set via ldflags during release builds.
	// For development builds, this will show "dev"
	version = "dev"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// UserAgent returns the User-Agent sent by the HTTP adapter, e.g.
// "oasbind/v1.2.0 (go1.24.1)".
func UserAgent() string {
	return fmt.Sprintf("oasbind/%s (%s)", version, runtime.Version())
}
