// Package version holds build metadata injected with -ldflags.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/gripfinance/grip-backend/internal/version.Version=1.4.0"
var Version = "dev"
