package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/lifecycle"
)

var logsOpts lifecycle.LogsOptions

var logsCmd = &cobra.Command{
	Use:   "logs <name>",
	Short: "Show container logs of an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return lifecycle.Logs(cmd.Context(), store, args[0], logsOpts)
	},
}

func init() {
	logsCmd.Flags().BoolVarP(&logsOpts.Follow, "follow", "f", false, "follow log output")
	logsCmd.Flags().IntVar(&logsOpts.Tail, "tail", lifecycle.DefaultLogTail, "number of lines to show from the end of the logs")
	rootCmd.AddCommand(logsCmd)
}
