package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/aretw0/anamnesis"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the anamnesis version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "anamnesis %s\n", strings.TrimSpace(anamnesis.Version))
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Fprintf(out, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Also print the Go toolchain and platform")
	rootCmd.AddCommand(versionCmd)
}
