package main

import (
	"os"

	"mailveil/cmd/mailveil/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
