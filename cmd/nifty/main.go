package main

import (
	"os"

	"github.com/quantinfra/nifty500/cmd/nifty/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
