// Package main provides the CLI for the Operations Center admin console.
package main

import (
	"os"

	"github.com/opscenter-labs/opsconsole/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
