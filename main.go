package main

import (
	"context"
	"os"

	"github.com/magic-cli-dev/magic/internal/cli"
	"github.com/magic-cli-dev/magic/internal/dispatch"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(context.Background(), version, commit, date); err != nil {
		os.Exit(dispatch.ExitCode(err))
	}
}
