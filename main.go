package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/skyvault-labs/s5vector/cmd"
)

func main() {
	// Optional .env for local development; ignore if absent.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
