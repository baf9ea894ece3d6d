// Package version reports which build of billwise is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Set at release time:
//
//	go build -ldflags="-X github.com/muurk/billwise/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/billwise/internal/version.Commit=4f2c9e1 \
//	                   -X github.com/muurk/billwise/internal/version.Date=2026-10-01"
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info describes the running build.
type Info struct {
	Version   string
	Commit    string
	Date      string
	Dirty     bool
	GoVersion string
}

var (
	once    sync.Once
	current Info
)

// Get returns the build info. Values missing from ldflags are taken from the
// VCS stamp Go embeds in the binary; "dev" and "unknown" fill what is left.
func Get() Info {
	once.Do(func() {
		current = resolve(Version, Commit, Date, readSettings())
	})
	return current
}

func readSettings() map[string]string {
	settings := map[string]string{}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		settings["main.version"] = info.Main.Version
	}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

func resolve(version, commit, date string, settings map[string]string) Info {
	info := Info{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}

	if info.Version == "" {
		info.Version = settings["main.version"]
	}
	if info.Commit == "" {
		info.Commit = shortHash(settings["vcs.revision"])
		info.Dirty = settings["vcs.modified"] == "true"
	}
	if info.Date == "" {
		if t := settings["vcs.time"]; len(t) >= len("2006-01-02") {
			info.Date = t[:len("2006-01-02")]
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

func shortHash(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// String formats the info for `billwise version`
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "billwise %s (commit: %s", i.Version, i.Commit)
	if i.Dirty {
		b.WriteString(", modified")
	}
	if i.Date != "" {
		fmt.Fprintf(&b, ", built %s", i.Date)
	}
	fmt.Fprintf(&b, ", %s)", i.GoVersion)
	return b.String()
}

// UserAgent is the User-Agent sent to prediction services
func UserAgent() string {
	return "billwise/" + Get().Version
}
