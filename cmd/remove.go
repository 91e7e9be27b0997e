package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/apps"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Stop an application and remove it from the registry",
	Long: `Stop an application's containers and delete its registry entry. The
application's files are never touched. Use --force to deregister even
when the stop fails or the compose file is already gone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apps.Remove(cmd.Context(), store, args[0], removeForce)
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "deregister even when the stop fails")
	rootCmd.AddCommand(removeCmd)
}
