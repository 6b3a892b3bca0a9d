package main

import (
	"os"

	"github.com/aretw0/anamnesis/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog]",
	Short: "Check a catalog for consistency",
	Long:  `Reports missing prompts, unknown branch targets and dangling relations. Warnings never fail validation.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := engineOptions(cmd).CatalogPath
		if len(args) > 0 {
			path = args[0]
		}
		return cli.ValidateCatalog(os.Stdout, path)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
