// Command server runs the basketball stat tracker HTTP API.
//
// Usage:
//
//	server [serve] [--config config.yaml]
//	server migrate [--config config.yaml]
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Apply the schema and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:           "server",
		Short:         "Basketball stat tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// a bare invocation serves, like the serve subcommand
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	root.AddCommand(serve, migrate)
	return root
}
