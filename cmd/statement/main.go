package main

import (
	"os"

	"github.com/gripfinance/grip-backend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
