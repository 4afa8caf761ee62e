package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/daemon"
)

const maskedPassword = "********"

func init() { //nolint: gochecknoinits
	checkCmd.AddCommand(checkConfigCmd)
	checkConfigCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print the configuration as JSON")

	rootCmd.AddCommand(checkCmd)
}

var (
	dumpJSON bool

	checkCmd = &cobra.Command{
		Use:   "check <company-id> <user-id> <resource> <action>",
		Short: "Resolve one permission of a member and print the deciding layer",
		Example: `  crewaccess check 1 42 work_hours approve
  crewaccess check config --json`,
		Args:    cobra.ExactArgs(4), //nolint:mnd
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil {
				return fmt.Errorf("invalid company id %q: %w", args[0], err)
			}

			userID, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[1], err)
			}

			gdb, svc, err := daemon.OpenServices(cmd.Context(), &cfg, false)
			if err != nil {
				return err
			}

			defer func() {
				if sqlDB, errDB := gdb.DB(); errDB == nil {
					_ = sqlDB.Close()
				}
			}()

			d, err := svc.Explain(cmd.Context(), userID, uint(companyID), args[2], args[3])
			if err != nil {
				return err
			}

			verdict := "denied"
			if d.Allowed {
				verdict = "allowed"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s %s for user %d in company %d (source: %s)\n",
				args[2], args[3], verdict, userID, companyID, d.Source)

			if d.Reason != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "reason: %s\n", d.Reason)
			}

			return nil
		},
	}

	checkConfigCmd = &cobra.Command{
		Use:     "config",
		Short:   "Validate the configuration and print it with secrets masked",
		Args:    cobra.NoArgs,
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			masked := cfg
			if masked.DB.Password != "" {
				masked.DB.Password = maskedPassword
			}

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&masked)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)

			return nil
		},
	}
)
