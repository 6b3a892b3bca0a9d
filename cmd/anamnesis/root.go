package main

import (
	"fmt"
	"os"

	"github.com/aretw0/anamnesis/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anamnesis",
	Short: "Anamnesis is a branching diagnostic questionnaire engine",
	Long: `Anamnesis drives an interactive diagnostic session for aesthetic clinics:
it asks a sequence of questions, lets answers redirect the sequence and ranks
candidate equipment by relevance.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("catalog", "", "YAML catalog file (defaults to $ANAMNESIS_CATALOG or the embedded clinic catalog)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed for the question order (random when omitted)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("dir", ".", "Directory holding .anamnesis/sessions")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of session events")
}

// engineOptions reads the persistent engine flags.
func engineOptions(cmd *cobra.Command) cli.EngineOptions {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = os.Getenv("ANAMNESIS_CATALOG")
	}
	seed, _ := cmd.Flags().GetUint64("seed")
	return cli.EngineOptions{
		CatalogPath: path,
		Seed:        seed,
		HasSeed:     cmd.Flags().Changed("seed"),
	}
}

func dirFlag(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	return dir
}
