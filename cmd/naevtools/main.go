// Package main provides the naevtools command-line entry point.
package main

import (
	"os"

	"github.com/perey/naevtools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
