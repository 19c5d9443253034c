// Package main provides the entry point for certmesh-cli.
//
// certmesh-cli bootstraps, verifies and manages the local TLS
// certificates produced by certmesh.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/certmesh-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
