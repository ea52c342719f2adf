package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/caduceus/internal/cli"
)

func main() {
	// Optional; real env vars win over .env entries.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
