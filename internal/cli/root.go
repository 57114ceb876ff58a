// Package cli wires the cobra command surface for the wrapper.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claycoleman/graphite-cli-wrapper/internal/graphite"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gtw",
		Short: "gtw wraps the Graphite CLI with stack-aware submit and sync",
		Long: `gtw wraps the Graphite CLI (gt) with a stack-aware submit flow that keeps a
stack comment on every pull request in the chain, and a sync flow that cleans
up merged branches. Unrecognized commands pass through to gt unchanged.`,
		SilenceUsage: true,
		Version:      version,
	}

	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	// Root help also shows the help of the wrapped gt, minus its account
	// management sections.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		if cmd != rootCmd {
			return
		}
		gt, err := graphite.Locate()
		if err != nil {
			return
		}
		help, err := gt.Help(cmd.Context())
		if err != nil {
			return
		}
		fmt.Println("\nOriginal gt help:")
		fmt.Println(help)
	})

	return rootCmd
}
