// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// Current returns the build information of the running binary.
func Current() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildTime,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if stamped, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range stamped.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "unknown" && len(setting.Value) >= 7 {
					info.Commit = setting.Value[:7]
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildTime == "unknown" {
					info.BuildTime = setting.Value
				}
			}
		}
	}
	return info
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	info := Current()
	dirty := ""
	if info.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", info.Version, info.Commit, dirty, info.BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	info := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", Info(), info.Go, info.Platform)
}
