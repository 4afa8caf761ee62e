// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/logger"
)

// Version is set via ldflags at build time.
var Version = "dev" //nolint:gochecknoglobals

var (
	configPath string // Path to the configuration directory
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "crewaccess",
		Short: "crewaccess resolves and manages company permissions of the workforce app",
		Long: `crewaccess is the multi-tenant permission core of the workforce app.
It provisions company roles, customizes role permissions per company, keeps
per-member overrides and records every change in an audit log.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the directory holding main.toml")
}

// loadConfig reads the configuration and initializes the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
