package main

import (
	"os"

	"github.com/atlas-finance/atlas/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
