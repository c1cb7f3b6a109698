// Package buildinfo reports which bridgegad build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "\
//	    -X github.com/bridgegad/bridgegad/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/bridgegad/bridgegad/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/bridgegad/bridgegad/pkg/buildinfo.Date=$(date -u +%FT%TZ)" ./cmd/bridgegad
//
// A binary installed with "go install ...@version" carries no ldflags; the
// module version and VCS stamp from the Go build info fill in instead.
package buildinfo

import (
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fillOnce sync.Once

// fill replaces unstamped values from debug.ReadBuildInfo.
func fill() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && Commit == "none":
				Commit = s.Value
				if len(Commit) > 12 {
					Commit = Commit[:12]
				}
			case s.Key == "vcs.time" && Date == "unknown":
				Date = s.Value
			}
		}
	})
}

// Current returns the version after filling unstamped values.
func Current() string {
	fill()
	return Version
}

// Creator is the producer string written into PDF metadata.
func Creator() string {
	return "BridgeGAD " + Current()
}

// Template is the cobra version template.
func Template() string {
	fill()
	return "{{.Name}} " + Version + " (commit " + Commit + ", built " + Date + ")\n"
}
