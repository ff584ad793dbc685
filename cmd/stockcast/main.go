package main

import (
	"os"

	"github.com/wonny/stockcast/backend/cmd/stockcast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
