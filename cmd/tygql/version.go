package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
	"sync"
)

//go:embed VERSION
var embeddedVersion string

// Version is the module version when installed with go install, and
// devel-<VERSION>[+<revision>[-dirty]] for builds from a checkout.
var Version = sync.OnceValue(func() string {
	return version(strings.TrimSpace(embeddedVersion), debug.ReadBuildInfo)
})

func version(base string, read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				rev = s.Value[:7]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	switch {
	case rev == "":
		return "devel-" + base
	case dirty:
		return "devel-" + base + "+" + rev + "-dirty"
	}
	return "devel-" + base + "+" + rev
}
