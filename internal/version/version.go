package version

// Version is the eventwatch release version. Overridable at build time with
// -ldflags "-X github.com/clubops/eventwatch/internal/version.Version=...".
var Version = "0.1.0-dev"
