package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/anamnesis/internal/cli"
	"github.com/aretw0/anamnesis/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves diagnostic sessions over a JSON API. Sessions live in memory, or in
Redis when ANAMNESIS_REDIS_ADDR (or --redis) is set. Prometheus metrics are
exposed at /metrics.

Stored sessions are encrypted when ANAMNESIS_ENCRYPTION_KEY holds a base64
AES-256 key, and answers under context keys matching ANAMNESIS_PII_KEYS are
masked before they reach the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := serverOptions(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			opts.Config.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, opts)
	},
}

// serverOptions merges the environment configuration with command-line flags.
func serverOptions(cmd *cobra.Command) (cli.ServerOptions, error) {
	cfg, err := config.Load()
	if err != nil {
		return cli.ServerOptions{}, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if redisAddr, _ := cmd.Flags().GetString("redis"); redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}
	debug, _ := cmd.Flags().GetBool("debug")

	return cli.ServerOptions{
		Engine: engineOptions(cmd),
		Config: cfg,
		Debug:  debug,
	}, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides ANAMNESIS_ADDR)")
	serveCmd.Flags().String("redis", "", "Redis address for shared sessions (overrides ANAMNESIS_REDIS_ADDR)")
}
