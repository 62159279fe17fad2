package main

import (
	"os"

	"zarc/cmd/zarc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
