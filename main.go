package main

import (
	"os"

	"github.com/compustack/aether/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
