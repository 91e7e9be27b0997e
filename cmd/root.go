// Package cmd wires the dcm command tree.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dcm/internal/config"
	"dcm/internal/console"
	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/registry"
	"dcm/internal/version"
)

var (
	flagLogLevel string
	flagNoColor  bool

	// appConf and store are initialized by the root PersistentPreRunE
	// before any subcommand runs.
	appConf config.AppConfig
	store   *registry.Store
)

var rootCmd = &cobra.Command{
	Use:   version.CommandName,
	Short: "Manage docker-compose applications",
	Long: `dcm keeps a registry of docker-compose applications and drives their
lifecycle through the compose runtime: register, start, stop, update,
back up, restore, and provision new apps from templates.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		console.SetNoColor(flagNoColor)

		conf, err := config.LoadAppConfig()
		if err != nil {
			return err
		}
		appConf = conf
		store = registry.NewStore()

		level := conf.LogLevel
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		if level != "" {
			parsed, parseErr := logger.ParseLevel(level)
			if parseErr != nil {
				return errdefs.Usagef("%v", parseErr)
			}
			logger.SetLevel(parsed)
		}

		// Best effort, an unprunable log never blocks a command.
		if conf.LogRetentionDays > 0 {
			if pruneErr := logger.PruneLogs(conf.LogRetentionDays); pruneErr != nil {
				logger.Debug(cmd.Context(), "Failed to prune old logs: %v", pruneErr)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (trace|debug|info|notice|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	// Accept underscore spellings (--log_level) for every flag.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", version.ApplicationName))
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errdefs.Usagef("%v", err)
	})
}

// Execute runs the command tree and maps failures to exit codes: usage
// errors exit 2, everything else 1.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(ctx, "%v", err)
		if errdefs.IsUsage(err) {
			return 2
		}
		return 1
	}
	return 0
}
