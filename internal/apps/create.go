package apps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dcm/internal/composefile"
	"dcm/internal/config"
	"dcm/internal/errdefs"
	"dcm/internal/logger"
	"dcm/internal/registry"
	"dcm/internal/template"
	"dcm/internal/version"
)

// CreateFromTemplate provisions a new app from a template into the apps
// directory and registers it. Registration happens strictly after
// materialization succeeds: a failed create never leaves a registered
// name pointing at rubble.
func CreateFromTemplate(ctx context.Context, store *registry.Store, conf config.AppConfig, tmpl template.Template, name, description string) error {
	if err := registry.ValidateName(name); err != nil {
		return err
	}
	if _, err := store.Resolve(ctx, name); err == nil {
		return errdefs.Usagef("app '%s' is already registered, pick another name", name)
	} else if !errdefs.IsNotFound(err) {
		return err
	}

	destDir := filepath.Join(conf.AppsDirectory, name)
	logger.Notice(ctx, "Creating '{{_App_}}%s{{|-|}}' from template '{{_Template_}}%s{{|-|}}'.", name, tmpl.Name)

	if err := template.Materialize(ctx, tmpl, destDir, name, description); err != nil {
		return err
	}

	if _, err := composefile.Find(destDir); err != nil {
		os.RemoveAll(destDir)
		return fmt.Errorf("template '%s' ships no compose file, removed '%s' again", tmpl.ID, destDir)
	}

	if err := store.Upsert(ctx, name, destDir); err != nil {
		return err
	}

	logger.Notice(ctx, "Created '{{_App_}}%s{{|-|}}' in '{{_Folder_}}%s{{|-|}}'. Start it with '{{_UserCommand_}}%s start %s{{|-|}}'.", name, destDir, version.CommandName, name)
	return nil
}
