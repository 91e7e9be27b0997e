package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/apps"
	"dcm/internal/console"
	"dcm/internal/logger"
	"dcm/internal/version"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered applications with their live status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rows, err := apps.ListRows(ctx, store)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			logger.Notice(ctx, "No applications registered. Add one with '{{_UserCommand_}}%s add <name> <path>{{|-|}}'.", version.CommandName)
			return nil
		}

		data := make([]string, 0, len(rows)*3)
		for _, row := range rows {
			data = append(data,
				"{{_App_}}"+row.Name+"{{|-|}}",
				row.Status,
				"{{_Folder_}}"+row.Path+"{{|-|}}",
			)
		}
		console.PrintTable([]string{"Name", "Status", "Path"}, data, true)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
