package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/claycoleman/graphite-cli-wrapper/internal/git"
	"github.com/claycoleman/graphite-cli-wrapper/internal/graphite"
	"github.com/claycoleman/graphite-cli-wrapper/internal/run"
)

// wrapperCommands are handled by the wrapper itself and never passed through
var wrapperCommands = map[string]bool{
	"submit":     true,
	"sync":       true,
	"version":    true,
	"help":       true,
	"completion": true,
}

// HandlePassthrough routes commands the wrapper does not own: git aliases go
// to git, everything else goes to gt with the terminal attached. Returns
// whether the command was handled and the exit code to use.
func HandlePassthrough(args []string) (bool, int) {
	if len(args) < 2 {
		return false, 0
	}

	command := args[1]
	if strings.HasPrefix(command, "-") || wrapperCommands[command] {
		return false, 0
	}

	ctx := context.Background()
	g := git.New()

	var err error
	if g.IsAlias(ctx, command) {
		fmt.Fprintf(os.Stderr, "Passing command through to git...\n")
		err = g.RunInteractive(args[1:]...)
	} else {
		gt, lerr := graphite.Locate()
		if lerr != nil {
			fmt.Fprintln(os.Stderr, lerr)
			return true, 1
		}
		err = gt.Passthrough(args[1:]...)
	}

	return true, run.ExitCode(err)
}
