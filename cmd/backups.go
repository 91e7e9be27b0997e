package cmd

import (
	"path/filepath"
	"strconv"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"dcm/internal/backup"
	"dcm/internal/console"
	"dcm/internal/logger"
	"dcm/internal/version"
)

var backupsCmd = &cobra.Command{
	Use:   "backups [name]",
	Short: "List backup archives, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		archives, err := backup.List(ctx, appConf, name)
		if err != nil {
			return err
		}
		if len(archives) == 0 {
			logger.Notice(ctx, "No backups found. Create one with '{{_UserCommand_}}%s backup <name>{{|-|}}'.", version.CommandName)
			return nil
		}

		data := make([]string, 0, len(archives)*5)
		for _, a := range archives {
			volumes := "-"
			if a.Volumes >= 0 {
				volumes = strconv.Itoa(a.Volumes)
			}
			data = append(data,
				"{{_App_}}"+a.App+"{{|-|}}",
				a.CreatedAt.Format("2006-01-02 15:04:05"),
				units.HumanSize(float64(a.Size)),
				volumes,
				"{{_File_}}"+filepath.Base(a.Path)+"{{|-|}}",
			)
		}
		console.PrintTable([]string{"App", "Created", "Size", "Volumes", "File"}, data, true)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
}
