// shiplift - ship release assets between a software forge and object storage
package main

import (
	"os"

	"github.com/shiplift/shiplift/internal/cli"
	"github.com/shiplift/shiplift/internal/version"
)

// Version information - overridden via LDFLAGS for release builds
var (
	Version   = "v1.2.0"
	BuildTime = "unknown"
)

func main() {
	// Set version in version package (canonical source for all packages)
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
