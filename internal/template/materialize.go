package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"dcm/internal/assets"
	"dcm/internal/logger"
	"dcm/internal/version"
)

// Placeholder tokens templates may carry in their files. They are
// patched textually; template files are never parsed and regenerated.
const (
	placeholderAppName        = "{{APP_NAME}}"
	placeholderAppDescription = "{{APP_DESCRIPTION}}"
)

// Materialize downloads tmpl's file set into destDir, substitutes the
// app placeholders, and initializes a git repository with a single
// commit. destDir must not exist yet. Any failure removes destDir
// again: a half-provisioned app directory is worse than none.
func Materialize(ctx context.Context, tmpl Template, destDir, appName, appDescription string) (err error) {
	if _, serr := os.Stat(destDir); serr == nil {
		return fmt.Errorf("directory '%s' already exists", destDir)
	}
	if err := os.MkdirAll(filepath.Dir(destDir), 0o755); err != nil {
		return fmt.Errorf("creating apps directory: %w", err)
	}
	if err := os.Mkdir(destDir, 0o755); err != nil {
		return fmt.Errorf("creating app directory: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(destDir)
		}
	}()

	client := httpClient()
	for _, file := range tmpl.Files {
		if err := downloadFile(ctx, client, tmpl.URL, file, destDir); err != nil {
			return err
		}
	}

	if err := substitutePlaceholders(destDir, appName, appDescription); err != nil {
		return err
	}

	if !hasReadme(tmpl.Files) {
		logger.Debug(ctx, "Template '%s' ships no README, writing the scaffold one.", tmpl.ID)
		readme := assets.AppReadme(appName, appDescription)
		if err := os.WriteFile(filepath.Join(destDir, "README.md"), readme, 0o644); err != nil {
			return fmt.Errorf("writing README: %w", err)
		}
	}

	if err := initGitRepo(destDir, tmpl); err != nil {
		return err
	}
	return nil
}

// downloadFile fetches one template file, preserving its relative
// subpath under destDir. File names that would escape destDir are
// rejected; the registry document is remote input.
func downloadFile(ctx context.Context, client *http.Client, baseURL, file, destDir string) error {
	rel := filepath.FromSlash(file)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("template file '%s' escapes the app directory", file)
	}

	fileURL, err := url.JoinPath(baseURL, file)
	if err != nil {
		return fmt.Errorf("building URL for '%s': %w", file, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("downloading '%s': %w", file, err)
	}
	req.Header.Set("User-Agent", version.ApplicationName+"/"+version.Version)

	logger.Info(ctx, "Downloading '{{_File_}}%s{{|-|}}'.", file)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading '%s': %w", file, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading '%s': server answered %s", file, resp.Status)
	}

	target := filepath.Join(destDir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("downloading '%s': %w", file, err)
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("downloading '%s': %w", file, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("downloading '%s': %w", file, err)
	}
	return out.Close()
}

// substitutePlaceholders patches the app placeholders in every
// downloaded file that carries one.
func substitutePlaceholders(destDir, appName, appDescription string) error {
	return filepath.WalkDir(destDir, func(p string, d os.DirEntry, werr error) error {
		if werr != nil || d.IsDir() {
			return werr
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		text := string(content)
		if !strings.Contains(text, placeholderAppName) && !strings.Contains(text, placeholderAppDescription) {
			return nil
		}
		text = strings.ReplaceAll(text, placeholderAppName, appName)
		text = strings.ReplaceAll(text, placeholderAppDescription, appDescription)
		return os.WriteFile(p, []byte(text), 0o644)
	})
}

func hasReadme(files []string) bool {
	for _, f := range files {
		if strings.EqualFold(filepath.Base(filepath.FromSlash(f)), "README.md") {
			return true
		}
	}
	return false
}

// initGitRepo turns destDir into a git repository with one commit
// holding the materialized file set.
func initGitRepo(destDir string, tmpl Template) error {
	repo, err := git.PlainInit(destDir, false)
	if err != nil {
		return fmt.Errorf("initializing git repository: %w", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("initializing git repository: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging template files: %w", err)
	}

	msg := fmt.Sprintf("Initial commit from template '%s'", tmpl.Name)
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  version.ApplicationName,
			Email: "dcm@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing template files: %w", err)
	}
	return nil
}
