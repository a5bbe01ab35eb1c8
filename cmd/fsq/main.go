// Command fsq renders and checks FlexibleSearch query documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fsq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "fsq:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
