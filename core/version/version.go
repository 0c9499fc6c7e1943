// Package version reports the version of the go-dpdk module.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version describes a build of this module.
type Version struct {
	Version string    `json:"version"`
	Commit  string    `json:"commit"`
	Date    time.Time `json:"date"`
	Dirty   bool      `json:"dirty"`
}

func (v Version) String() string { return v.Version }

// V is the version of the running binary.
// Without VCS metadata in the build info, it reports a development build.
var V = Version{
	Version: "unreleased",
	Date:    time.Now(),
	Dirty:   true,
}

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v, ok := fromBuildInfo(bi); ok {
			V = v
		}
	}
}

func fromBuildInfo(bi *debug.BuildInfo) (v Version, ok bool) {
	settings := map[string]string{}
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	commit := settings["vcs.revision"]
	date, e := time.Parse(time.RFC3339, settings["vcs.time"])
	if settings["vcs"] != "git" || len(commit) != 40 || e != nil {
		return v, false
	}

	v = Version{
		Version: fmt.Sprintf("v0.0.0-%s-%s", date.Format("20060102150405"), commit[:12]),
		Commit:  commit,
		Date:    date,
		Dirty:   settings["vcs.modified"] == "true",
	}
	if v.Dirty {
		v.Version += "-dirty"
	}
	return v, true
}
