package framesync

import (
	"runtime"
	"strings"
)

// Name is the application name shown by the CLI and by the status server.
const Name = "framesync"

// Version is overridden at build time with -ldflags "-X github.com/aretw0/framesync.Version=...".
var Version = "dev"

// BuildInfo describes the running binary.
func BuildInfo() map[string]string {
	return map[string]string{
		"app":      Name,
		"version":  strings.TrimSpace(Version),
		"go":       runtime.Version(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
	}
}
