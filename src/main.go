package main

import (
	"fmt"
	"os"

	"github.com/apimgr/hostscout/src/cmd"
	"github.com/apimgr/hostscout/src/paths"
)

func main() {
	// Directories exist before config, logging or the key file are touched
	if err := paths.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init directories: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
