package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLI(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
