package version

var (
	Version   = "v1.2"
	GitCommit = "dev"
	BuildDate = "20260831000000"
)

// String returns a human-readable version string.
func String() string {
	return "deathnote " + Version + " (" + GitCommit + ", " + BuildDate + ")"
}
