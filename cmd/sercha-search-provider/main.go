// Command sercha-search-provider serves file search results to the desktop
// shell.
package main

import (
	"context"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetRuntime(&cli.Runtime{
		OpenSettings: openSettings,
		Build:        buildServices,
	})
	cli.Run(context.Background())
}
