// Command prazo computes procedural deadlines from the terminal, either
// in-process or against a PrazoCerto API server.
package main

import (
	"os"

	"github.com/turtacn/PrazoCerto/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute already reported the error on stderr.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
