// Command figgo compiles design-tool node trees into validated TSX
// components and merges them into a host application.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/figgo/figgo/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// ExitErrors already wrote formatted output; anything else
		// (flag parse errors and the like) still needs printing.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
