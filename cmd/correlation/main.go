// @title Correlation Service API
// @version 1.0
// @description Registers external sources, records their synchronization checkpoints and correlates externally sourced elements.
// @BasePath /api/v1
package main

import (
	"fmt"
	"os"

	"correlation-service/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	root := cli.NewRootCommand()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
