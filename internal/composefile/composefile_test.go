package composefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/compose-spec/compose-go/v2/types"

	"dcm/internal/errdefs"
)

const sampleCompose = `services:
  web:
    image: nginx:alpine
    ports:
      - "8080:80"
    volumes:
      - webdata:/usr/share/nginx/html
  db:
    image: postgres:16
    volumes:
      - dbdata:/var/lib/postgresql/data

volumes:
  webdata: {}
  dbdata:
    name: custom_db_volume
  shared:
    external: true
`

func writeCompose(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestFindPreferenceOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"compose.yaml", "docker-compose.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("services: {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if filepath.Base(got) != "docker-compose.yml" {
		t.Errorf("Find = %q, want docker-compose.yml preferred", got)
	}
}

func TestFindMissing(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errdefs.IsNotFound(err) {
		t.Errorf("Find on empty dir = %v, want NotFoundError", err)
	}
}

func TestLoad(t *testing.T) {
	dir := writeCompose(t, "docker-compose.yml", sampleCompose)

	proj, err := Load(context.Background(), dir, "blog")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantServices := []string{"db", "web"}
	if len(proj.Services) != len(wantServices) {
		t.Fatalf("Services = %v, want %v", proj.Services, wantServices)
	}
	for i, s := range wantServices {
		if proj.Services[i] != s {
			t.Errorf("Services[%d] = %q, want %q", i, proj.Services[i], s)
		}
	}

	byKey := map[string]Volume{}
	for _, v := range proj.Volumes {
		byKey[v.Key] = v
	}

	if v := byKey["webdata"]; v.Name != "blog_webdata" || v.External {
		t.Errorf("webdata = %+v, want project-prefixed internal volume", v)
	}
	if v := byKey["dbdata"]; v.Name != "custom_db_volume" {
		t.Errorf("dbdata = %+v, want explicit name honored", v)
	}
	if v := byKey["shared"]; v.Name != "shared" || !v.External {
		t.Errorf("shared = %+v, want external volume named by key", v)
	}
}

func TestLoadAlternateFileName(t *testing.T) {
	dir := writeCompose(t, "compose.yaml", sampleCompose)

	proj, err := Load(context.Background(), dir, "blog")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Base(proj.Path) != "compose.yaml" {
		t.Errorf("Path = %q, want compose.yaml", proj.Path)
	}
}

func TestVolumeName(t *testing.T) {
	tests := []struct {
		name string
		key  string
		cfg  types.VolumeConfig
		want string
	}{
		{"default prefix", "data", types.VolumeConfig{}, "app_data"},
		{"explicit name", "data", types.VolumeConfig{Name: "mydata"}, "mydata"},
		{"external by key", "data", types.VolumeConfig{External: true}, "data"},
		{"external with name", "data", types.VolumeConfig{Name: "shared", External: true}, "shared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VolumeName("app", tt.key, tt.cfg); got != tt.want {
				t.Errorf("VolumeName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLooseCheck(t *testing.T) {
	dir := writeCompose(t, "docker-compose.yml", sampleCompose)
	if err := LooseCheck(filepath.Join(dir, "docker-compose.yml")); err != nil {
		t.Errorf("LooseCheck on valid file: %v", err)
	}

	badDir := writeCompose(t, "docker-compose.yml", "services: [unbalanced")
	if err := LooseCheck(filepath.Join(badDir, "docker-compose.yml")); err == nil {
		t.Error("LooseCheck on invalid YAML must fail")
	}

	emptyDir := writeCompose(t, "docker-compose.yml", "version: '3'\n")
	if err := LooseCheck(filepath.Join(emptyDir, "docker-compose.yml")); err == nil {
		t.Error("LooseCheck without services section must fail")
	}
}
