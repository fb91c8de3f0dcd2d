// Package version reports the build version of kepler. The variables are
// set at link time:
//
//	go build -ldflags "-X github.com/rshade/kepler/pkg/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build metadata, overridden with -ldflags.
//
//nolint:gochecknoglobals // Set by the linker.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version without a leading "v".
func GetVersion() string {
	return strings.TrimPrefix(Version, "v")
}

// Parse parses a kepler version string such as "1.2.0" or "v0.3.1-dev".
func Parse(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return parsed, nil
}

// String returns a one-line description for `kepler --version`.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", GetVersion(), GitCommit, BuildDate, runtime.Version())
}
