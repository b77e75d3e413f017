package main

import (
	"os"

	"github.com/dan-solli/retrospect/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
