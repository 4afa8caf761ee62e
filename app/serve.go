package app

import (
	"github.com/spf13/cobra"

	"github.com/fieldcrew/crewaccess/internal/daemon"
)

func init() { //nolint: gochecknoinits
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(serveCmd)
}

var (
	devMode bool

	serveCmd = &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the crewaccess web service",
		Args:    cobra.NoArgs,
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if devMode {
				cfg.DevMode = true
			}

			d, err := daemon.New(cmd.Context(), &cfg)
			if err != nil {
				return err
			}

			defer func() { _ = d.Close() }()

			return d.Start()
		},
	}
)
