// Package version provides version information for kubeless-deploy.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version.
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Linked modules reported by version.
const (
	clientGoModule = "k8s.io/client-go"
	cueModule      = "cuelang.org/go"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`

	// ClientGoVersion is the linked client-go version, "unknown" when
	// build info is unavailable (e.g. in tests).
	ClientGoVersion string `json:"clientGoVersion"`

	// CUEVersion is the CUE SDK used to validate service manifests.
	CUEVersion string `json:"cueVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:         Version,
		GitCommit:       GitCommit,
		BuildDate:       BuildDate,
		GoVersion:       runtime.Version(),
		ClientGoVersion: dependencyVersion(clientGoModule),
		CUEVersion:      dependencyVersion(cueModule),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("kubeless-deploy version %s\n  Commit:    %s\n  Built:     %s\n  Go:        %s\n  client-go: %s\n  CUE SDK:   %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.ClientGoVersion, i.CUEVersion)
}

func dependencyVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			return dep.Version
		}
	}
	return "unknown"
}
