// Package main is the entrypoint for the pactsafe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/pactsafe/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
