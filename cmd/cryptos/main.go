// Package main is the entry point for the cryptos CLI.
package main

import (
	"os"

	"github.com/karpathy/cryptos-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
