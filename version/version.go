package version

import (
	"runtime/debug"
	"strings"
)

// Version is set at build time with -ldflags; "dev" otherwise.
var Version = "dev"

// Info is the resolved build identity.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	IsDirty   bool   `json:"is_dirty,omitempty"`
}

// Get resolves the build identity from the ldflags variable and, where
// available, the binary's embedded VCS metadata.
func Get() Info {
	info := Info{Version: Version}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = buildInfo.GoVersion

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit := setting.Value
			if len(commit) > 7 {
				commit = commit[:7]
			}
			info.GitCommit = commit
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		}
	}
	return info
}

// String returns a short version string like "1.0.0-3f2a1bc" or
// "dev-3f2a1bc-dirty".
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}
