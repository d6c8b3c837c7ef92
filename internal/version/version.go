// internal/version/version.go
package version

// Version is overridden at build time via -ldflags "-X hashcheck/internal/version.Version=...".
var Version = "0.3.0"
