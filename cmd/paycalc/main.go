package main

import (
	"fmt"
	"os"

	"github.com/andrei-cloud/paycalc/internal/commands/cli"
)

// main builds the command tree and runs it.
func main() {
	root, err := cli.NewRootCommand()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
