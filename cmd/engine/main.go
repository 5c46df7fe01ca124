package main

import (
	"os"

	"github.com/wonny/capengine/cmd/engine/commands"
)

// main is the entry point for the engine CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/engine [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
