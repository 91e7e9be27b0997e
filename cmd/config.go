package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/console"
	"dcm/internal/paths"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration and state locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		console.Printf("Configuration file:   {{_File_}}%s{{|-|}}\n", paths.GetConfigFilePath())
		console.Printf("Registry file:        {{_File_}}%s{{|-|}}\n", paths.GetRegistryFilePath())
		console.Printf("Log directory:        {{_Folder_}}%s{{|-|}}\n", paths.GetLogsDir())
		console.Printf("\n")
		console.Printf("apps_directory:         {{_Folder_}}%s{{|-|}}\n", appConf.AppsDirectory)
		console.Printf("backups directory:      {{_Folder_}}%s{{|-|}}\n", appConf.BackupsDir)
		console.Printf("backup.include_volumes: %t\n", appConf.Backup.IncludeVolumes)
		console.Printf("backup.retention_days:  %d\n", appConf.Backup.RetentionDays)
		console.Printf("log_level:              %s\n", appConf.LogLevel)
		console.Printf("log_retention_days:     %d\n", appConf.LogRetentionDays)
		console.Printf("templates.registry_url: {{_URL_}}%s{{|-|}}\n", appConf.Templates.RegistryURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
