// Command kanren runs logic programs written in YAML or CUE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/kanren/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own errors; only flag and argument errors
		// from cobra reach here unprinted.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
