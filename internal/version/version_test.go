package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuild(t *testing.T, version, commit, built string, info *debug.BuildInfo) {
	t.Helper()

	oldVersion, oldCommit, oldTime, oldRead := Version, GitCommit, BuildTime, readSettings
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, readSettings = oldVersion, oldCommit, oldTime, oldRead
	})

	Version, GitCommit, BuildTime = version, commit, built
	readSettings = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func vcsInfo(revision string, modified bool) *debug.BuildInfo {
	dirty := "false"
	if modified {
		dirty = "true"
	}
	return &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: revision},
			{Key: "vcs.modified", Value: dirty},
		},
	}
}

func TestGetVersion(t *testing.T) {
	t.Run("ldflags win", func(t *testing.T) {
		withBuild(t, "v1.2.3", "unknown", "unknown", vcsInfo("abcdef1234", false))
		assert.Equal(t, "v1.2.3", GetVersion())
		assert.True(t, IsRelease())
	})

	t.Run("module version", func(t *testing.T) {
		withBuild(t, "dev", "unknown", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}})
		assert.Equal(t, "v0.4.0", GetVersion())
	})

	t.Run("vcs revision", func(t *testing.T) {
		withBuild(t, "dev", "unknown", "unknown", vcsInfo("abcdef1234", false))
		assert.Equal(t, "dev-abcdef1", GetVersion())
		assert.False(t, IsRelease())
	})

	t.Run("nothing known", func(t *testing.T) {
		withBuild(t, "", "", "", nil)
		assert.Equal(t, "dev", GetVersion())
		assert.Equal(t, "unknown", GetGitCommit())
	})
}

func TestGetShortVersion(t *testing.T) {
	withBuild(t, "v1.0.0", "0123456789abcdef", "unknown", nil)
	assert.Equal(t, "v1.0.0 (0123456)", GetShortVersion())

	withBuild(t, "dev", "unknown", "unknown", vcsInfo("fedcba9876", false))
	assert.Equal(t, "dev-fedcba9", GetShortVersion())
}

func TestGetDetailedVersion(t *testing.T) {
	withBuild(t, "v2.0.0", "unknown", "2025-01-02T03:04:05Z", vcsInfo("abcdef1234", true))

	out := GetDetailedVersion()
	assert.True(t, strings.HasPrefix(out, "Version: v2.0.0\n"))
	assert.Contains(t, out, "Commit: abcdef1234 (dirty)")
	assert.Contains(t, out, "Built: 2025-01-02T03:04:05Z")
	assert.Contains(t, out, "Go: go")
	assert.Contains(t, out, "Platform: ")
}

func TestParseBuildTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-01-02T03:04:05Z", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02 03:04:05", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"unknown", time.Time{}},
		{"yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseBuildTime(tt.input)))
		})
	}
}
