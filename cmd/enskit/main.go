// Command enskit works with ensemble idents and realization filters.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/enskit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "enskit: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
