// Command finopsguard is the CLI entry point for the cost and policy gate.
package main

import (
	"fmt"
	"os"

	"github.com/finopsguard/finopsguard/cmd/finopsguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
