package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup <name>",
	Short: "Archive an application into a self-contained backup",
	Long: `Create a timestamped tar.gz archive of an application's compose file,
its .env, and (when backup.include_volumes is set) snapshots of its
named volumes. Archives land in the backups directory next to the apps.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := backup.Create(cmd.Context(), store, appConf, args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
