// Command sercha runs the federated search engine as a CLI, HTTP API,
// MCP server or terminal UI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	defer logger.Sync()

	configDir := os.Getenv("SERCHA_CONFIG_DIR")
	if err := file.LoadEnvFile(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(Version)
	cli.SetRuntimeFactory(func(ctx context.Context) (*cli.Runtime, error) {
		return buildRuntime(ctx, configDir)
	})

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
