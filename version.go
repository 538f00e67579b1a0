package timelock

// release is the semantic version of this build. Untagged builds carry the
// -dev suffix.
const release = "v0.1.0-dev"

// GitCommit is filled in at link time with
// -ldflags "-X github.com/iov-one/timelock.GitCommit=<hash>".
var GitCommit = ""

// Version is reported by the ABCI Info call and the version command.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
