package main

import (
	"os"

	"github.com/claycoleman/graphite-cli-wrapper/internal/cli"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
	"github.com/claycoleman/graphite-cli-wrapper/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	checker := update.Start(version)

	exitCode := 0
	if handled, code := cli.HandlePassthrough(os.Args); handled {
		exitCode = code
	} else {
		rootCmd := cli.NewRootCmd(version, commit, date)
		if err := rootCmd.Execute(); err != nil {
			exitCode = 1
		}
	}

	checker.WaitAndNotify(tui.NewSplog())
	os.Exit(exitCode)
}
