// Package version reports what build is running
package version

import (
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X membersearch/internal/core/version.version=v0.3.0
// -X membersearch/internal/core/version.commit=abcd -X membersearch/internal/core/version.date=2026-01-02"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Service   string `json:"service" example:"membersearch-api"`
	Version   string `json:"version" example:"v0.3.0"`
	Commit    string `json:"commit" example:"4f2c9e1"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"`
}

var (
	infoOnce sync.Once
	info     BuildInfo
)

// Info returns the ldflags values, falling back to the vcs stamp go build records
func Info() BuildInfo {
	infoOnce.Do(func() {
		info = BuildInfo{Service: "membersearch-api", Version: version, Commit: commit, Date: date}
		if bi, ok := debug.ReadBuildInfo(); ok {
			info = fromBuild(info, bi)
		}
	})
	return info
}

func fromBuild(b BuildInfo, bi *debug.BuildInfo) BuildInfo {
	b.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	if b.Commit == "" {
		b.Commit = "none"
	}
	return b
}
