// Package buildinfo reports the version of the running binary.
package buildinfo

import (
	"runtime/debug"
)

// override is set with -ldflags "-X .../internal/buildinfo.override=v1.2.3"
// by release builds that are not produced with go install.
var override string

// Info describes the running build.
type Info struct {
	Version   string // tag, "dev-<hash>[-dirty]", "dev" or "unknown"
	Commit    string // full VCS revision, if known
	Dirty     bool   // uncommitted changes at build time
	GoVersion string
}

// Version returns the version string for the current build.
func Version() string {
	return Read().Version
}

// Read collects build information from the ldflags override and the Go
// build metadata.
func Read() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		v := override
		if v == "" {
			v = "unknown"
		}
		return Info{Version: v}
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{GoVersion: info.GoVersion}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.Commit = setting.Value
		case "vcs.modified":
			out.Dirty = setting.Value == "true"
		}
	}

	switch {
	case override != "":
		out.Version = override
	case info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = info.Main.Version
	default:
		out.Version = devVersion(out.Commit, out.Dirty)
	}
	return out
}

// devVersion builds "dev-<12 char hash>[-dirty]", or "dev" without VCS info.
func devVersion(revision string, dirty bool) string {
	if revision == "" {
		return "dev"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	v := "dev-" + revision
	if dirty {
		v += "-dirty"
	}
	return v
}
