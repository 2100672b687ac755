package main

import (
	"os"

	"github.com/Simplici0/childsupport/cmd/childsupport/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
