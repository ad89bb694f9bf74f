package config

// Version is the versionctl binary version.
// Set at build time via: -ldflags "-X github.com/printdesk/versions/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
