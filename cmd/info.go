package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"dcm/internal/apps"
	"dcm/internal/console"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show everything dcm knows about an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		det, err := apps.Info(cmd.Context(), store, args[0])
		if err != nil {
			return err
		}

		console.Printf("Name:         {{_App_}}%s{{|-|}}\n", det.Name)
		console.Printf("Path:         {{_Folder_}}%s{{|-|}}\n", det.Path)
		if !det.AddedAt.IsZero() {
			console.Printf("Added:        %s\n", det.AddedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if det.ComposeFile != "" {
			console.Printf("Compose file: {{_File_}}%s{{|-|}}\n", det.ComposeFile)
		}
		if len(det.Services) > 0 {
			console.Printf("Services:     %s\n", strings.Join(det.Services, ", "))
		}
		for _, vol := range det.Volumes {
			suffix := ""
			if vol.External {
				suffix = " (external)"
			}
			console.Printf("Volume:       {{_Volume_}}%s{{|-|}}%s\n", vol.Name, suffix)
		}

		if !det.DaemonReachable {
			return nil
		}
		if len(det.Containers) == 0 {
			console.Printf("Containers:   none running\n")
			return nil
		}

		data := make([]string, 0, len(det.Containers)*3)
		for _, c := range det.Containers {
			data = append(data, c.Name, c.Service, c.Status)
		}
		console.PrintTable([]string{"Container", "Service", "Status"}, data, true)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
