// Package main provides the entry point for the WireGuard Manager application.
// WireGuard Manager keeps a directory of WireGuard tunnel configs, attaches
// routing scripts to them and brings them up or down with wg-quick.
//
// Features:
//   - Import, edit, export and remove tunnel configs
//   - Routing scripts with a binding interface placeholder
//   - Host and client config generation with fresh keys
//   - Live state monitoring of every tunnel
//
// Usage:
//
//	wg-manager [flags] COMMAND
//
// Environment:
//
//	The application requires wg and wg-quick to be installed on the system.
package main

import (
	"os"

	"github.com/yllada/wg-manager/cli"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{
		Version:   appVersion,
		BuildTime: buildTime,
		Commit:    commitSHA,
	}))
}
