package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/terpwatch/terpwatch/internal/cli"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
