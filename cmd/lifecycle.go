package cmd

import (
	"github.com/spf13/cobra"

	"dcm/internal/lifecycle"
)

// lifecycleCommand builds one verb command. With a name it targets that
// app; without one it fans out over every registered app.
func lifecycleCommand(action lifecycle.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " [name]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				return lifecycle.Apply(ctx, store, action, args[0])
			}
			return lifecycle.ApplyAll(ctx, store, action)
		},
	}
}

func init() {
	rootCmd.AddCommand(
		lifecycleCommand(lifecycle.ActionStart, "Start an application (or all of them)"),
		lifecycleCommand(lifecycle.ActionStop, "Stop an application (or all of them)"),
		lifecycleCommand(lifecycle.ActionRestart, "Restart an application (or all of them)"),
		lifecycleCommand(lifecycle.ActionStatus, "Show container status of an application (or all of them)"),
		lifecycleCommand(lifecycle.ActionUpdate, "Pull new images and recreate an application (or all of them)"),
	)
}
