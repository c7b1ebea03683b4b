package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"seasoncli/internal/cli"
)

func main() {
	// Optional; real environments configure via the environment or
	// the --config flag.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
