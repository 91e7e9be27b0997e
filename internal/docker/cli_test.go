package docker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dcm/internal/errdefs"
)

func TestComposeArgs(t *testing.T) {
	args := ComposeArgs("/srv/apps/radarr", "radarr", "up", "--detach", "--remove-orphans")

	want := []string{
		"compose",
		"--project-directory", "/srv/apps/radarr",
		"--project-name", "radarr",
		"up", "--detach", "--remove-orphans",
	}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d: %v", len(args), len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg[%d]: got %q, want %q", i, args[i], want[i])
		}
	}
}

func TestComposeArgsAlwaysPinsProject(t *testing.T) {
	// Even a bare verb has to carry the project pin, otherwise compose
	// falls back to directory-name inference.
	args := ComposeArgs("/srv/apps/x", "x", "ps")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--project-directory /srv/apps/x") {
		t.Errorf("missing project directory pin: %v", args)
	}
	if !strings.Contains(joined, "--project-name x") {
		t.Errorf("missing project name pin: %v", args)
	}
}

func TestParseComposeVersion(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"2.24.6", "2.24.6", false},
		{"v2.24.6", "2.24.6", false},
		{"  v2.20.0\n", "2.20.0", false},
		{"2.35.1-desktop.1", "2.35.1-desktop.1", false},
		{"not-a-version", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := ParseComposeVersion(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseComposeVersion(%q): expected error, got %v", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseComposeVersion(%q): unexpected error: %v", tc.raw, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseComposeVersion(%q): got %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestEnsureCompose(t *testing.T) {
	ctx := context.Background()

	origOutput := composeVersionOutput
	defer func() {
		composeVersionOutput = origOutput
		ResetComposeCheck()
	}()

	t.Run("current version passes", func(t *testing.T) {
		ResetComposeCheck()
		composeVersionOutput = func(ctx context.Context) (string, error) {
			return "2.29.1\n", nil
		}
		if err := EnsureCompose(ctx); err != nil {
			t.Fatalf("EnsureCompose: unexpected error: %v", err)
		}
	})

	t.Run("old version rejected", func(t *testing.T) {
		ResetComposeCheck()
		composeVersionOutput = func(ctx context.Context) (string, error) {
			return "2.10.0", nil
		}
		err := EnsureCompose(ctx)
		if err == nil {
			t.Fatal("EnsureCompose: expected error for an old compose")
		}
		if !errdefs.IsExternalTool(err) {
			t.Errorf("expected ExternalToolError, got %T: %v", err, err)
		}
	})

	t.Run("missing compose rejected", func(t *testing.T) {
		ResetComposeCheck()
		composeVersionOutput = func(ctx context.Context) (string, error) {
			return "", &errdefs.ExternalToolError{Tool: "docker", ExitCode: 1, Output: "docker: 'compose' is not a docker command"}
		}
		err := EnsureCompose(ctx)
		if err == nil {
			t.Fatal("EnsureCompose: expected error when compose is missing")
		}
		if !errdefs.IsExternalTool(err) {
			t.Errorf("expected ExternalToolError, got %T: %v", err, err)
		}
	})

	t.Run("unparseable version tolerated", func(t *testing.T) {
		ResetComposeCheck()
		composeVersionOutput = func(ctx context.Context) (string, error) {
			return "weird-build-string", nil
		}
		if err := EnsureCompose(ctx); err != nil {
			t.Fatalf("EnsureCompose: unexpected error for odd version output: %v", err)
		}
	})

	t.Run("result is cached", func(t *testing.T) {
		ResetComposeCheck()
		calls := 0
		composeVersionOutput = func(ctx context.Context) (string, error) {
			calls++
			return "2.29.1", nil
		}
		for i := 0; i < 3; i++ {
			if err := EnsureCompose(ctx); err != nil {
				t.Fatalf("EnsureCompose call %d: %v", i, err)
			}
		}
		if calls != 1 {
			t.Errorf("version probe ran %d times, want 1", calls)
		}
	})
}

func TestCheckComposeVersionErrorNamesTool(t *testing.T) {
	ctx := context.Background()

	origOutput := composeVersionOutput
	defer func() {
		composeVersionOutput = origOutput
		ResetComposeCheck()
	}()

	composeVersionOutput = func(ctx context.Context) (string, error) {
		return "", fmt.Errorf("exec: \"docker\": executable file not found in $PATH")
	}
	ResetComposeCheck()

	err := EnsureCompose(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "compose") {
		t.Errorf("error should mention compose: %v", err)
	}
}
