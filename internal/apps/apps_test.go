package apps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dcm/internal/config"
	"dcm/internal/errdefs"
	"dcm/internal/paths"
	"dcm/internal/registry"
	"dcm/internal/template"
)

const testComposeContent = `services:
  web:
    image: nginx:alpine
`

func newTestStore(t *testing.T, apps map[string]string) *registry.Store {
	t.Helper()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths.StateHomeOverride = filepath.Join(tempDir, "state")
	t.Cleanup(func() { paths.StateHomeOverride = "" })

	store := registry.NewStoreAt(filepath.Join(tempDir, "apps.json"))
	for name, dir := range apps {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := store.Upsert(ctx, name, dir); err != nil {
			t.Fatalf("Upsert(%s): %v", name, err)
		}
	}
	return store
}

func writeCompose(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte(testComposeContent), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an existing project", func(t *testing.T) {
		store := newTestStore(t, nil)
		appDir := filepath.Join(t.TempDir(), "webapp")
		writeCompose(t, appDir)

		if err := Add(ctx, store, "webapp", appDir); err != nil {
			t.Fatalf("Add: %v", err)
		}

		entry, err := store.Resolve(ctx, "webapp")
		if err != nil {
			t.Fatalf("Resolve after Add: %v", err)
		}
		if entry.Path != appDir {
			t.Errorf("registered path got %q, want %q", entry.Path, appDir)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		store := newTestStore(t, nil)

		err := Add(ctx, store, "webapp", filepath.Join(t.TempDir(), "nope"))
		if !errdefs.IsNotFound(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if _, rerr := store.Resolve(ctx, "webapp"); !errdefs.IsNotFound(rerr) {
			t.Error("a failed Add must not leave a registry entry")
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		store := newTestStore(t, nil)
		file := filepath.Join(t.TempDir(), "compose.yml")
		if err := os.WriteFile(file, []byte(testComposeContent), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := Add(ctx, store, "webapp", file); !errdefs.IsUsage(err) {
			t.Errorf("expected UsageError for a file path, got %v", err)
		}
	})

	t.Run("directory without a compose file", func(t *testing.T) {
		store := newTestStore(t, nil)
		emptyDir := t.TempDir()

		err := Add(ctx, store, "webapp", emptyDir)
		if !errdefs.IsNotFound(err) {
			t.Fatalf("expected NotFoundError for missing compose file, got %v", err)
		}
		if _, rerr := store.Resolve(ctx, "webapp"); !errdefs.IsNotFound(rerr) {
			t.Error("a failed Add must not leave a registry entry")
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		store := newTestStore(t, nil)
		appDir := filepath.Join(t.TempDir(), "webapp")
		writeCompose(t, appDir)

		if err := Add(ctx, store, "Bad Name!", appDir); !errdefs.IsUsage(err) {
			t.Errorf("expected UsageError for invalid name, got %v", err)
		}
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	intercept := func(t *testing.T, fail bool) *[][]string {
		t.Helper()
		var calls [][]string
		orig := composeRun
		composeRun = func(ctx context.Context, dir, name string, verb ...string) error {
			calls = append(calls, verb)
			if fail {
				return fmt.Errorf("daemon exploded")
			}
			return nil
		}
		t.Cleanup(func() { composeRun = orig })
		return &calls
	}

	t.Run("stops and deregisters", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), "webapp")
		writeCompose(t, appDir)
		store := newTestStore(t, map[string]string{"webapp": appDir})
		calls := intercept(t, false)

		if err := Remove(ctx, store, "webapp", false); err != nil {
			t.Fatalf("Remove: %v", err)
		}

		if len(*calls) != 1 || (*calls)[0][0] != "down" {
			t.Errorf("expected one compose down, got %+v", *calls)
		}
		if _, err := store.Resolve(ctx, "webapp"); !errdefs.IsNotFound(err) {
			t.Error("entry must be gone after Remove")
		}
		if _, err := os.Stat(filepath.Join(appDir, "docker-compose.yml")); err != nil {
			t.Error("Remove must leave the app's files in place")
		}
	})

	t.Run("stop failure aborts without force", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), "webapp")
		writeCompose(t, appDir)
		store := newTestStore(t, map[string]string{"webapp": appDir})
		intercept(t, true)

		if err := Remove(ctx, store, "webapp", false); err == nil {
			t.Fatal("Remove: expected the stop failure to propagate")
		}
		if _, err := store.Resolve(ctx, "webapp"); err != nil {
			t.Error("entry must survive an aborted Remove")
		}
	})

	t.Run("stop failure tolerated with force", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), "webapp")
		writeCompose(t, appDir)
		store := newTestStore(t, map[string]string{"webapp": appDir})
		intercept(t, true)

		if err := Remove(ctx, store, "webapp", true); err != nil {
			t.Fatalf("Remove --force: %v", err)
		}
		if _, err := store.Resolve(ctx, "webapp"); !errdefs.IsNotFound(err) {
			t.Error("entry must be gone after forced Remove")
		}
	})

	t.Run("dangling entry needs force", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), "webapp")
		store := newTestStore(t, map[string]string{"webapp": appDir})
		calls := intercept(t, false)

		err := Remove(ctx, store, "webapp", false)
		if err == nil || !strings.Contains(err.Error(), "--force") {
			t.Fatalf("expected an error pointing at --force, got %v", err)
		}

		if err := Remove(ctx, store, "webapp", true); err != nil {
			t.Fatalf("Remove --force on dangling entry: %v", err)
		}
		if len(*calls) != 0 {
			t.Errorf("compose must not run without a compose file, got %+v", *calls)
		}
		if _, err := store.Resolve(ctx, "webapp"); !errdefs.IsNotFound(err) {
			t.Error("dangling entry must be gone after forced Remove")
		}
	})

	t.Run("unknown app", func(t *testing.T) {
		store := newTestStore(t, nil)
		calls := intercept(t, false)

		if err := Remove(ctx, store, "ghost", false); !errdefs.IsNotFound(err) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
		if len(*calls) != 0 {
			t.Errorf("compose must not run for an unknown app, got %+v", *calls)
		}
	})
}

func TestClone(t *testing.T) {
	ctx := context.Background()

	fakeClone := func(t *testing.T, withCompose bool, fail bool) *[]string {
		t.Helper()
		var urls []string
		orig := gitClone
		gitClone = func(ctx context.Context, dir, repoURL string) error {
			urls = append(urls, repoURL)
			if fail {
				return fmt.Errorf("remote hung up")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			content := "# just a readme\n"
			name := "README.md"
			if withCompose {
				content = testComposeContent
				name = "docker-compose.yml"
			}
			return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		}
		t.Cleanup(func() { gitClone = orig })
		return &urls
	}

	t.Run("clones and registers", func(t *testing.T) {
		store := newTestStore(t, nil)
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		fakeClone(t, true, false)

		if err := Clone(ctx, store, conf, "https://example.com/webapp.git", "webapp"); err != nil {
			t.Fatalf("Clone: %v", err)
		}

		entry, err := store.Resolve(ctx, "webapp")
		if err != nil {
			t.Fatalf("Resolve after Clone: %v", err)
		}
		want := filepath.Join(conf.AppsDirectory, "webapp")
		if entry.Path != want {
			t.Errorf("registered path got %q, want %q", entry.Path, want)
		}
	})

	t.Run("clone failure cleans up", func(t *testing.T) {
		store := newTestStore(t, nil)
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		fakeClone(t, true, true)

		if err := Clone(ctx, store, conf, "https://example.com/webapp.git", "webapp"); err == nil {
			t.Fatal("Clone: expected the clone failure to propagate")
		}
		if _, err := os.Stat(filepath.Join(conf.AppsDirectory, "webapp")); !os.IsNotExist(err) {
			t.Error("a failed clone must not leave a directory behind")
		}
		if _, err := store.Resolve(ctx, "webapp"); !errdefs.IsNotFound(err) {
			t.Error("a failed clone must not leave a registry entry")
		}
	})

	t.Run("repository without compose file is removed again", func(t *testing.T) {
		store := newTestStore(t, nil)
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		fakeClone(t, false, false)

		err := Clone(ctx, store, conf, "https://example.com/docs.git", "docs")
		if err == nil || !strings.Contains(err.Error(), "compose") {
			t.Fatalf("expected a compose file error, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(conf.AppsDirectory, "docs")); !os.IsNotExist(err) {
			t.Error("a compose-less clone must be removed again")
		}
		if _, err := store.Resolve(ctx, "docs"); !errdefs.IsNotFound(err) {
			t.Error("a compose-less clone must not be registered")
		}
	})

	t.Run("existing directory is refused", func(t *testing.T) {
		store := newTestStore(t, nil)
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		if err := os.MkdirAll(filepath.Join(conf.AppsDirectory, "webapp"), 0o755); err != nil {
			t.Fatal(err)
		}
		urls := fakeClone(t, true, false)

		if err := Clone(ctx, store, conf, "https://example.com/webapp.git", "webapp"); err == nil {
			t.Fatal("Clone: expected an error for an existing target directory")
		}
		if len(*urls) != 0 {
			t.Errorf("the clone must not start for an existing directory, got %v", *urls)
		}
	})
}

func TestCreateFromTemplate(t *testing.T) {
	ctx := context.Background()

	scaffold := func(t *testing.T, files map[string]string) (template.Template, *int) {
		t.Helper()
		var requests int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			content, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, content)
		}))
		t.Cleanup(srv.Close)

		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		return template.Template{
			ID:    "go-api",
			Name:  "Go API",
			URL:   srv.URL,
			Files: names,
		}, &requests
	}

	t.Run("creates and registers", func(t *testing.T) {
		store := newTestStore(t, nil)
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		tmpl, _ := scaffold(t, map[string]string{
			"docker-compose.yml": testComposeContent,
			"main.go":            "package main\n",
		})

		if err := CreateFromTemplate(ctx, store, conf, tmpl, "api", "my service"); err != nil {
			t.Fatalf("CreateFromTemplate: %v", err)
		}

		destDir := filepath.Join(conf.AppsDirectory, "api")
		entry, err := store.Resolve(ctx, "api")
		if err != nil {
			t.Fatalf("Resolve after create: %v", err)
		}
		if entry.Path != destDir {
			t.Errorf("registered path got %q, want %q", entry.Path, destDir)
		}
		if _, err := os.Stat(filepath.Join(destDir, "main.go")); err != nil {
			t.Errorf("template file missing: %v", err)
		}
	})

	t.Run("already registered name", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), "api")
		writeCompose(t, appDir)
		store := newTestStore(t, map[string]string{"api": appDir})
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		tmpl, requests := scaffold(t, map[string]string{"docker-compose.yml": testComposeContent})

		if err := CreateFromTemplate(ctx, store, conf, tmpl, "api", ""); !errdefs.IsUsage(err) {
			t.Fatalf("expected UsageError for a taken name, got %v", err)
		}
		if *requests != 0 {
			t.Errorf("no downloads expected for a taken name, got %d", *requests)
		}
	})

	t.Run("template without compose file is removed again", func(t *testing.T) {
		store := newTestStore(t, nil)
		conf := config.AppConfig{AppsDirectory: filepath.Join(t.TempDir(), "apps")}
		tmpl, _ := scaffold(t, map[string]string{"README.md": "# {{APP_NAME}}\n"})

		err := CreateFromTemplate(ctx, store, conf, tmpl, "api", "")
		if err == nil || !strings.Contains(err.Error(), "compose") {
			t.Fatalf("expected a compose file error, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(conf.AppsDirectory, "api")); !os.IsNotExist(err) {
			t.Error("a compose-less create must be removed again")
		}
		if _, err := store.Resolve(ctx, "api"); !errdefs.IsNotFound(err) {
			t.Error("a compose-less create must not be registered")
		}
	})
}
