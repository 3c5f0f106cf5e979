package main

import (
	"os"

	"github.com/ebb-dev/ebb/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
