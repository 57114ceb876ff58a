package cli

import (
	"github.com/spf13/cobra"

	"github.com/claycoleman/graphite-cli-wrapper/internal/actions/sync"
	"github.com/claycoleman/graphite-cli-wrapper/internal/runtime"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var (
		dryRun       bool
		skipRestack  bool
		currentStack bool
		yes          bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull trunk, delete merged branches, and restack",
		Long: `Pull the latest trunk, prompt to delete local branches whose pull requests
have merged, and restack what remains.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.New(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ctx.Splog.Close() }()

			return sync.Action(ctx, sync.Options{
				DryRun:       dryRun,
				SkipRestack:  skipRestack,
				CurrentStack: currentStack,
				Yes:          yes,
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print mutating commands instead of running them")
	cmd.Flags().BoolVar(&skipRestack, "skip-restack", false, "Skip running 'gt restack' at the end")
	cmd.Flags().BoolVarP(&currentStack, "current-stack", "c", false, "Only consider branches in the current stack")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete merged branches without prompting")

	return cmd
}
