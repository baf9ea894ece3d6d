package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestResolve_LdflagsWin(t *testing.T) {
	info := resolve("v0.3.0", "4f2c9e1", "2026-10-01", map[string]string{
		"main.version": "v0.2.0",
		"vcs.revision": "0123456789abcdef",
		"vcs.modified": "true",
		"vcs.time":     "2026-09-01T10:00:00Z",
	})

	if info.Version != "v0.3.0" || info.Commit != "4f2c9e1" || info.Date != "2026-10-01" {
		t.Errorf("resolve() = %+v, want ldflags values", info)
	}
	if info.Dirty {
		t.Error("Dirty should only follow the VCS stamp when the commit comes from it")
	}
}

func TestResolve_FromBuildSettings(t *testing.T) {
	info := resolve("", "", "", map[string]string{
		"vcs.revision": "0123456789abcdef",
		"vcs.modified": "true",
		"vcs.time":     "2026-09-01T10:00:00Z",
	})

	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.Commit != "0123456" {
		t.Errorf("Commit = %q, want 0123456", info.Commit)
	}
	if !info.Dirty {
		t.Error("Dirty = false, want true")
	}
	if info.Date != "2026-09-01" {
		t.Errorf("Date = %q, want 2026-09-01", info.Date)
	}
}

func TestResolve_Nothing(t *testing.T) {
	info := resolve("", "", "", map[string]string{})

	if info.Version != "dev" || info.Commit != "unknown" || info.Date != "" {
		t.Errorf("resolve() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v0.3.0", Commit: "4f2c9e1", Date: "2026-10-01", Dirty: true, GoVersion: "go1.24.10"}
	want := "billwise v0.3.0 (commit: 4f2c9e1, modified, built 2026-10-01, go1.24.10)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	short := Info{Version: "dev", Commit: "unknown", GoVersion: "go1.24.10"}
	if got := short.String(); got != "billwise dev (commit: unknown, go1.24.10)" {
		t.Errorf("String() = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); !strings.HasPrefix(ua, "billwise/") || ua == "billwise/" {
		t.Errorf("UserAgent() = %q", ua)
	}
}
