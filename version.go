package tonie

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the tonie library.
const Version = "0.1.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	Revision  string // VCS revision, "unknown" outside a VCS checkout
	Time      string // commit time
	Modified  bool   // built from a dirty tree
	GoVersion string
}

// GetVersionInfo reads the VCS stamp the go command embeds in binaries.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		Revision:  "unknown",
		Time:      "unknown",
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func (v VersionInfo) String() string {
	rev := v.Revision
	if v.Modified {
		rev += "+dirty"
	}
	return fmt.Sprintf("%s (%s, %s, %s)", v.Version, rev, v.Time, v.GoVersion)
}
