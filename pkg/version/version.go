// Package version carries build metadata for the ivtree binary.
package version

import (
	"runtime/debug"
)

const (
	defaultVersion = "dev"
	defaultCommit  = "none"
	defaultDate    = "unknown"

	vcsRevisionKey = "vcs.revision"
	vcsTimeKey     = "vcs.time"
	shortHashLen   = 12
)

// Build metadata, normally injected with
// -ldflags "-X github.com/Sumatoshi-tech/ivtree/pkg/version.Version=...".
var (
	Version = defaultVersion
	Commit  = defaultCommit
	Date    = defaultDate
)

// InitBinaryVersion fills metadata that was not set through ldflags from the
// build info embedded by the Go toolchain.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == defaultVersion && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case vcsRevisionKey:
			if Commit == defaultCommit && setting.Value != "" {
				Commit = setting.Value[:min(len(setting.Value), shortHashLen)]
			}
		case vcsTimeKey:
			if Date == defaultDate && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}
