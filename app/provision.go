package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fieldcrew/crewaccess/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(provisionCmd)
}

var provisionCmd = &cobra.Command{
	Use:   "provision <company-id> <creator-user-id>",
	Short: "Create the default roles of a company",
	Long: `Copy the built-in roles and their default grants into the company.
The creator becomes the owner when the company had no members yet; a company
with members needs a creator allowed to manage its permissions.`,
	Args:    cobra.ExactArgs(2), //nolint:mnd
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, err := strconv.ParseUint(args[0], 10, 0)
		if err != nil {
			return fmt.Errorf("invalid company id %q: %w", args[0], err)
		}

		creatorID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid creator id %q: %w", args[1], err)
		}

		gdb, svc, err := daemon.OpenServices(cmd.Context(), &cfg, true)
		if err != nil {
			return err
		}

		defer func() {
			if sqlDB, errDB := gdb.DB(); errDB == nil {
				_ = sqlDB.Close()
			}
		}()

		res, err := svc.CreateDefaultRoles(cmd.Context(), uint(companyID), creatorID)
		if err != nil {
			return err
		}

		if !res.OK() {
			return res.Err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "company %d provisioned\n", res.ID)

		return nil
	},
}
