package main

import (
	"os"

	"go-teeth-classifier/internal/config"
	"go-teeth-classifier/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand creates the CLI. Configuration is loaded once, before any
// subcommand runs, from the environment and the optional --config file.
func rootCommand() *cobra.Command {
	var configFile, envFile string
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:          "teeth-classifier",
		Short:        "Dental image classifier",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger.Configure(loaded.LogLevel)
			*cfg = *loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file; environment variables take precedence")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file exported before configuration is read")

	rootCmd.AddCommand(
		serveCommand(cfg),
		predictCommand(cfg),
	)
	return rootCmd
}
