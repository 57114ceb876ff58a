package cli

import (
	"github.com/spf13/cobra"

	"github.com/claycoleman/graphite-cli-wrapper/internal/actions/submit"
	"github.com/claycoleman/graphite-cli-wrapper/internal/runtime"
)

// newSubmitCmd creates the submit command
func newSubmitCmd() *cobra.Command {
	var (
		single     bool
		upstack    bool
		downstack  bool
		wholeStack bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Push stack branches and create or update their pull requests",
		Long: `Push the selected slice of the current stack, creating a draft pull request
for every branch that lacks one and retargeting bases that have moved, then
rewrite the stack comment on every pull request in the chain.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode := resolveModeFlags(single, upstack, downstack, wholeStack)

			ctx, err := runtime.New(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = ctx.Splog.Close() }()

			return submit.Action(ctx, submit.Options{
				Mode:   mode,
				DryRun: dryRun,
			})
		},
	}

	cmd.Flags().BoolVarP(&single, "single", "s", false, "Submit only the current branch")
	cmd.Flags().BoolVarP(&upstack, "upstack", "u", false, "Submit the current branch and all branches above it")
	cmd.Flags().BoolVarP(&downstack, "downstack", "n", false, "Submit the current branch and all branches below it")
	cmd.Flags().BoolVarP(&wholeStack, "whole-stack", "w", false, "Submit all branches in the stack")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print mutating commands instead of running them")
	cmd.MarkFlagsMutuallyExclusive("single", "upstack", "downstack", "whole-stack")

	return cmd
}

func resolveModeFlags(single, upstack, downstack, wholeStack bool) submit.Mode {
	switch {
	case single:
		return submit.ModeSingle
	case upstack:
		return submit.ModeUpstack
	case downstack:
		return submit.ModeDownstack
	case wholeStack:
		return submit.ModeWholeStack
	default:
		return submit.ModeUnset
	}
}
