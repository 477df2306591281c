package version

// Version is the realias build version. Release builds override it with
// -ldflags "-X github.com/tristendillon/realias/core/version.Version=...".
var Version = "dev"
