package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/apps"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register an existing compose project directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apps.Add(cmd.Context(), store, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
