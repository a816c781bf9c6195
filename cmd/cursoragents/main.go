// Package main is the entry point for the cursoragents CLI.
package main

import (
	"os"

	"github.com/watchfire-io/cursoragents/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
