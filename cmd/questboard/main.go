package main

import (
	"os"

	"github.com/Ajinkya236/course-questing-72-sub001/cmd/questboard/commands"
)

// main is the entry point for the questboard CLI: go run ./cmd/questboard [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
