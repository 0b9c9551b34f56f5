// Package main provides the speakboard CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/speakboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
