package main

import (
	"os"

	"fishcrypt/cmd/fishcrypt/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
