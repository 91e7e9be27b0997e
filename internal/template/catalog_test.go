package template

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dcm/internal/errdefs"
)

func fastRetries(t *testing.T) {
	t.Helper()
	origMax, origMin, origWax := retryMax, retryWaitMin, retryWaitMax
	retryMax = 1
	retryWaitMin = time.Millisecond
	retryWaitMax = 5 * time.Millisecond
	t.Cleanup(func() {
		retryMax, retryWaitMin, retryWaitMax = origMax, origMin, origWax
	})
}

const catalogJSON = `{
  "templates": [
    {
      "id": "go-api",
      "name": "Go API",
      "description": "Go service with Postgres",
      "version": "1.2.0",
      "url": "https://example.test/templates/go",
      "files": ["docker-compose.yml", "main.go"],
      "tags": ["go", "api"]
    },
    {
      "id": "fastapi",
      "name": "FastAPI",
      "version": "0.9.0",
      "url": "https://example.test/templates/fastapi",
      "files": ["docker-compose.yml", "app/main.py"]
    }
  ]
}`

func TestListTemplates(t *testing.T) {
	ctx := context.Background()
	fastRetries(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	templates := ListTemplates(ctx, srv.URL)
	if len(templates) != 2 {
		t.Fatalf("got %d templates, want 2: %+v", len(templates), templates)
	}
	if templates[0].ID != "go-api" || templates[0].Version != "1.2.0" {
		t.Errorf("first template got %+v", templates[0])
	}
	if len(templates[1].Files) != 2 || templates[1].Files[1] != "app/main.py" {
		t.Errorf("file list got %+v", templates[1].Files)
	}
}

func TestListTemplatesDegradesOnFailure(t *testing.T) {
	ctx := context.Background()
	fastRetries(t)

	t.Run("registry answers an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		if templates := ListTemplates(ctx, srv.URL); templates != nil {
			t.Errorf("expected empty list, got %+v", templates)
		}
	})

	t.Run("registry not reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		if templates := ListTemplates(ctx, srv.URL); templates != nil {
			t.Errorf("expected empty list, got %+v", templates)
		}
	})

	t.Run("registry document not valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		if templates := ListTemplates(ctx, srv.URL); templates != nil {
			t.Errorf("expected empty list, got %+v", templates)
		}
	})
}

func TestFind(t *testing.T) {
	templates := []Template{
		{ID: "go-api", Name: "Go API"},
		{ID: "fastapi", Name: "FastAPI"},
	}

	got, err := Find(templates, "fastapi")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Name != "FastAPI" {
		t.Errorf("got %+v", got)
	}

	_, err = Find(templates, "nope")
	if !errdefs.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	withDesc := Template{Name: "Go API", Description: "Go service"}
	if got := withDesc.Label(); got != "Go API - Go service" {
		t.Errorf("got %q", got)
	}
	bare := Template{Name: "Go API"}
	if got := bare.Label(); got != "Go API" {
		t.Errorf("got %q", got)
	}
}
