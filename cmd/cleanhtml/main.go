// Package main is the entry point for the cleanhtml CLI.
package main

import (
	"os"

	"github.com/vpotap/CleanHTML/cmd/cleanhtml/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
