package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ghdeclare/pkg/github"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [manifest.yaml]",
		Short: "Validate a manifest without contacting GitHub",
		Long: `Validate a desired-state manifest offline.

Checks the manifest kind, required fields, enumerated values, reference
shapes and duplicate entries. No token is needed.

Examples:
  ghdeclare validate labels.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(cmd, args)
			if err != nil {
				return err
			}
			manifest, err := github.LoadManifestFromFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid %s manifest\n", path, manifest.Kind())
			return nil
		},
	}
}
