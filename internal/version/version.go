// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent is the default User-Agent sent to the MusicBrainz web service.
func UserAgent() string {
	return "entitysearch/" + Version + " ( https://github.com/kailas-cloud/entitysearch )"
}
