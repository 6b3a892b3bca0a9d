package main

import (
	"github.com/aretw0/anamnesis/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive diagnostic session",
	Long: `Asks the catalog questions in the terminal and prints the live ranking
after each answer. Answer with the option number or free text; type "sair" to stop.
With --session the progress is saved and resumed on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = "warn"
		}

		return cli.RunSession(cmd.Context(), cli.RunOptions{
			Engine:    engineOptions(cmd),
			Dir:       dirFlag(cmd),
			SessionID: sessionID,
			Fresh:     fresh,
			JSON:      jsonMode,
			Debug:     debug,
			LogLevel:  level,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to save and resume")
	runCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
