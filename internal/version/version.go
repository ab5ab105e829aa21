// Package version provides build-time metadata for the crumbtrail binary.
// Version, GitCommit, and BuildDate are injected at compile time via -ldflags.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// DevVersion is the version reported by builds without ldflags.
const DevVersion = "dev"

// ErrUnsatisfied is returned when the running version does not satisfy a
// required constraint.
var ErrUnsatisfied = errors.New("version constraint not satisfied")

// Build-time values injected via -ldflags.
var (
	version   = DevVersion
	gitCommit = "none"
	buildDate = "unknown"
)

// Info holds the build metadata for the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the current build information.
func GetInfo() Info {
	return Info{
		Version:   version,
		GitCommit: shortCommit(gitCommit),
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable single-line version string.
func (i Info) String() string {
	return fmt.Sprintf("crumbtrail %s (commit: %s, built: %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}

// CheckConstraint reports whether the running binary satisfies constraint,
// a semver range such as ">= 1.2, < 2". An empty constraint and development
// builds always pass.
func CheckConstraint(constraint string) error {
	return checkConstraint(version, constraint)
}

func checkConstraint(current, constraint string) error {
	if constraint == "" || current == DevVersion {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", current, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: crumbtrail %s does not match %q", ErrUnsatisfied, current, constraint)
	}

	return nil
}
