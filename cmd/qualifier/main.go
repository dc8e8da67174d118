package main

import (
	"fmt"
	"os"

	"qualifier/internal/cli"
)

func main() {
	if err := cli.NewCLI(cli.Options{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
