package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/update"
)

var selfUpdateOpts update.Options

var selfUpdateCmd = &cobra.Command{
	Use:   "self-update",
	Short: "Update dcm to the latest release of its channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return update.SelfUpdate(cmd.Context(), selfUpdateOpts)
	},
}

func init() {
	selfUpdateCmd.Flags().BoolVar(&selfUpdateOpts.Check, "check", false, "only report whether an update is available")
	selfUpdateCmd.Flags().BoolVar(&selfUpdateOpts.Force, "force", false, "re-apply the current version even when up to date")
	selfUpdateCmd.Flags().BoolVarP(&selfUpdateOpts.Yes, "yes", "y", false, "answer the confirmation prompt with yes")
	rootCmd.AddCommand(selfUpdateCmd)
}
