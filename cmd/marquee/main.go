// Package main runs the marquee CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/marquee/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	// Commands report their own ExitErrors; cobra usage errors are not.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
