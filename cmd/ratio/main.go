package main

import (
	"os"

	"github.com/ratiohq/ratio/cmd/ratio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
