package main

import (
	"os"

	"github.com/aretw0/anamnesis/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the questionnaire as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) with the mandatory chain, the optional pool and the branch rules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		relations, _ := cmd.Flags().GetBool("relations")
		return cli.RenderGraph(cmd.Context(), os.Stdout, dirFlag(cmd), sessionID, relations, engineOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("session", "s", "", "Overlay the progress of a saved session")
	graphCmd.Flags().Bool("relations", false, "Include candidates linked by the relation matrix")
}
