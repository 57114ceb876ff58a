package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claycoleman/graphite-cli-wrapper/internal/graphite"
)

// newVersionCmd creates the version command
func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show wrapper and bundled Graphite CLI versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Printf("gtw: %s (commit %s, built %s)\n", version, commit, date)

			gtVersion := "unknown"
			if gt, err := graphite.Locate(); err == nil {
				gtVersion = gt.Version(cmd.Context())
			}
			fmt.Printf("Bundled Graphite CLI: %s\n", gtVersion)
			return nil
		},
	}
}
