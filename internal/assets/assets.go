// Package assets carries the files compiled into the binary. Right now
// that is the README scaffold written into template-provisioned apps
// that ship no README of their own.
package assets

import (
	"embed"
	"strings"
)

//go:embed scaffold
var embeddedFS embed.FS

// AppReadme renders the scaffold README for a freshly provisioned app.
func AppReadme(appName, appDescription string) []byte {
	content, err := embeddedFS.ReadFile("scaffold/README.md")
	if err != nil {
		// The file is compiled in; this cannot fail outside a broken
		// build.
		panic(err)
	}

	text := string(content)
	text = strings.ReplaceAll(text, "{{APP_NAME}}", appName)
	text = strings.ReplaceAll(text, "{{APP_DESCRIPTION}}", appDescription)
	return []byte(text)
}
