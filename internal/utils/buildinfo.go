package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// Version is injected at link time with -ldflags "-X github.com/temirov/codedoc/internal/utils.Version=v1.2.3".
var Version string

// GetApplicationVersion reports the version baked in at link time, then the
// module version recorded in build info, then the nearest git tag.
func GetApplicationVersion() string {
	if trimmed := strings.TrimSpace(Version); trimmed != "" {
		return trimmed
	}

	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	// #nosec G204
	describeOutput, describeError := exec.Command(gitExecutableName, gitDescribeCommand, "--tags", "--long", "--dirty").Output()
	if describeError == nil && len(describeOutput) > 0 {
		return strings.TrimSpace(string(describeOutput))
	}

	return unknownVersion
}
