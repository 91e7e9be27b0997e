package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dcm/internal/apps"
	"dcm/internal/console"
	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/template"
)

var (
	createTemplate    string
	createName        string
	createDescription string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new application from a template",
	Long: `Fetch the template catalog, pick a template, and materialize it as a
new application. Without flags the template and name are asked for
interactively; --template and --name make the command scriptable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		templates := template.ListTemplates(ctx, appConf.Templates.RegistryURL)
		if len(templates) == 0 {
			return fmt.Errorf("no templates available from '%s'", appConf.Templates.RegistryURL)
		}

		noticePrinter := func(ctx context.Context, msg string, args ...any) {
			logger.Notice(ctx, msg, args...)
		}

		var tmpl template.Template
		if createTemplate != "" {
			found, err := template.Find(templates, createTemplate)
			if err != nil {
				return err
			}
			tmpl = found
		} else {
			options := make([]string, len(templates))
			for i, t := range templates {
				options[i] = t.Label()
			}
			idx, err := console.SelectPrompt(ctx, noticePrinter, "Pick a template:", options)
			if err != nil {
				return err
			}
			if idx < 0 {
				return errdefs.Usagef("that was not one of the offered templates")
			}
			tmpl = templates[idx]
		}

		name := createName
		if name == "" {
			answer, err := console.LinePrompt(ctx, noticePrinter, "Name of the new app:", tmpl.ID)
			if err != nil {
				return err
			}
			name = answer
		}

		description := createDescription
		if description == "" {
			description = tmpl.Description
		}

		return apps.CreateFromTemplate(ctx, store, appConf, tmpl, name, description)
	},
}

func init() {
	createCmd.Flags().StringVar(&createTemplate, "template", "", "template id to use")
	createCmd.Flags().StringVar(&createName, "name", "", "name of the new app")
	createCmd.Flags().StringVar(&createDescription, "description", "", "description patched into the scaffold")
	rootCmd.AddCommand(createCmd)
}
