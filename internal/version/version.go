// Package version holds build metadata for lut3d, set with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is set with -X github.com/jmylchreest/lut3d/internal/version.Version=x.y.z.
	Version = "dev"

	// Commit is set with -X github.com/jmylchreest/lut3d/internal/version.Commit=$(git rev-parse HEAD).
	Commit = "unknown"

	// Date is set with -X github.com/jmylchreest/lut3d/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ).
	Date = "unknown"
)

// Info is the JSON form of the build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build metadata. When the binary was built without
// ldflags, the module version and VCS revision recorded by the Go toolchain
// are used instead.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// String returns the one-line version banner.
func String() string {
	info := GetInfo()
	if info.Commit != "unknown" && info.Date != "unknown" {
		return fmt.Sprintf("lut3d version %s (commit: %s, built: %s, %s, %s)",
			info.Version, shortCommit(info.Commit), info.Date, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("lut3d version %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
}

// Short returns the bare version.
func Short() string {
	return GetInfo().Version
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
