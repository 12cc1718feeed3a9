// Package main is the entry point for the snet boot-network agent.
package main

import (
	"fmt"
	"os"

	"bootnet.xyz/snet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
