package main

import (
	"os"

	"github.com/pathforge-labs/pathforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
