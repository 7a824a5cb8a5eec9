// Package version holds build information, set with
// -ldflags "-X github.com/bnema/chat-distiller/internal/version.Version=...".
package version

import "fmt"

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String describes the build: the version, followed by the commit and build date
// when they were stamped.
func String() string {
	switch {
	case Commit == "":
		return Version
	case Date == "":
		return fmt.Sprintf("%s (%s)", Version, Commit)
	default:
		return fmt.Sprintf("%s (%s, built %s)", Version, Commit, Date)
	}
}
