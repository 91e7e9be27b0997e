package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/apps"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <repo_url> <name>",
	Short: "Clone a git repository into the apps directory and register it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apps.Clone(cmd.Context(), store, appConf, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(cloneCmd)
}
