package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/bnema/nativewindow/cmd"
)

// Set via -ldflags at build time
var (
	version = "0.1.0-dev"
	commit  = ""
	date    = ""
)

func init() {
	// GLFW must be driven from the main thread
	runtime.LockOSThread()
}

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Date = date

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
