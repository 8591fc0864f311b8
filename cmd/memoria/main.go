// Command memoria is the translation memory engine CLI.
package main

import (
	"os"

	"github.com/custodia-labs/memoria-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
