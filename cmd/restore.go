package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/backup"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <name> <backup_file>",
	Short: "Restore an application from a backup archive",
	Long: `Restore compose file, .env, and volume snapshots from an archive. The
files go back to the registered path, or to a fresh directory under the
apps directory when the name is no longer registered. The application is
re-registered on success but never started.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return backup.Restore(cmd.Context(), store, appConf, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
