// Package misc provides build-time program information used in logs,
// version output and generated file names.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "wac"

// set by the linker on release builds
var appVersion = "development"

// GetAppName returns short program name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return appVersion
}

var getGitHash = sync.OnceValue(func() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var hash, modified string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = "*"
			}
		}
	}
	if hash == "" {
		return "unknown"
	}
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash + modified
})

// GetGitHash returns short git hash of the sources program was built from.
func GetGitHash() string {
	return getGitHash()
}
