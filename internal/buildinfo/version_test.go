package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name      string
		info      *debug.BuildInfo
		wantVer   string
		wantDirty bool
	}{
		{
			name:    "no vcs info returns dev",
			info:    &debug.BuildInfo{},
			wantVer: "dev",
		},
		{
			name:    "devel main version falls back to vcs",
			info:    &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVer: "dev",
		},
		{
			name:    "tagged release",
			info:    &debug.BuildInfo{Main: debug.Module{Version: "v0.4.1"}},
			wantVer: "v0.4.1",
		},
		{
			name: "long revision is truncated",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123def456789"},
				},
			},
			wantVer: "dev-abc123def456",
		},
		{
			name: "dirty tree",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVer:   "dev-abc123-dirty",
			wantDirty: true,
		},
		{
			name: "other settings ignored",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs", Value: "git"},
					{Key: "vcs.time", Value: "2025-01-15T12:00:00Z"},
					{Key: "vcs.revision", Value: "abc123def456"},
				},
			},
			wantVer: "dev-abc123def456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromBuildInfo(tt.info)
			if got.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", got.Version, tt.wantVer)
			}
			if got.Dirty != tt.wantDirty {
				t.Errorf("Dirty = %v, want %v", got.Dirty, tt.wantDirty)
			}
		})
	}
}

func TestFromBuildInfo_Override(t *testing.T) {
	saved := override
	defer func() { override = saved }()

	override = "v9.9.9"
	got := fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "v0.1.0"}})
	if got.Version != "v9.9.9" {
		t.Errorf("Version = %q, want ldflags override", got.Version)
	}
}

func TestVersion_NotEmpty(t *testing.T) {
	if Version() == "" {
		t.Error("Version() returned empty string")
	}
}
