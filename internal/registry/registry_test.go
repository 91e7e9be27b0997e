package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dcm/internal/errdefs"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), "apps.json"))
}

func TestUpsertThenResolve(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.Upsert(ctx, "blog", "/srv/blog"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	entry, err := s.Resolve(ctx, "blog")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if entry.Path != "/srv/blog" {
		t.Errorf("Resolve path = %q, want /srv/blog", entry.Path)
	}
	if entry.AddedAt.IsZero() {
		t.Error("AddedAt not recorded")
	}
}

func TestUpsertOverwritesSameName(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.Upsert(ctx, "blog", "/srv/old"); err != nil {
		t.Fatal(err)
	}
	first, _ := s.Resolve(ctx, "blog")

	if err := s.Upsert(ctx, "blog", "/srv/new"); err != nil {
		t.Fatal(err)
	}

	entry, err := s.Resolve(ctx, "blog")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Path != "/srv/new" {
		t.Errorf("last write must win: path = %q, want /srv/new", entry.Path)
	}
	if !entry.AddedAt.Equal(first.AddedAt) {
		t.Error("overwrite must keep the original added_at")
	}

	apps, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 {
		t.Errorf("re-add must overwrite, not append: %d entries", len(apps))
	}
}

func TestResolveUnknown(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.Resolve(ctx, "ghost")
	if !errdefs.IsNotFound(err) {
		t.Errorf("Resolve unknown = %v, want NotFoundError", err)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.Upsert(ctx, "blog", "/srv/blog"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "blog"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Resolve(ctx, "blog"); !errdefs.IsNotFound(err) {
		t.Error("entry still resolvable after Remove")
	}
}

func TestRemoveUnknownLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := s.Upsert(ctx, "blog", "/srv/blog"); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.FilePath())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(ctx, "ghost"); !errdefs.IsNotFound(err) {
		t.Fatalf("Remove unknown = %v, want NotFoundError", err)
	}

	after, err := os.ReadFile(s.FilePath())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("registry file changed by a failed Remove")
	}
}

func TestMissingFileIsEmptyRegistry(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	apps, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List on missing file: %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("missing file must read as empty, got %d entries", len(apps))
	}

	// And the file must not have been created by a read
	if _, statErr := os.Stat(s.FilePath()); !os.IsNotExist(statErr) {
		t.Error("read-only operation created the registry file")
	}
}

func TestCorruptFileFailsWithoutRewrite(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if err := os.WriteFile(s.FilePath(), []byte("{\"apps\": garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.List(ctx)
	if !errdefs.IsCorruptState(err) {
		t.Fatalf("List on corrupt file = %v, want CorruptStateError", err)
	}

	if err := s.Upsert(ctx, "blog", "/srv/blog"); !errdefs.IsCorruptState(err) {
		t.Fatalf("Upsert on corrupt file = %v, want CorruptStateError", err)
	}

	data, readErr := os.ReadFile(s.FilePath())
	if readErr != nil || string(data) != "{\"apps\": garbage" {
		t.Error("corrupt registry was rewritten")
	}
}

func TestListSorted(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Upsert(ctx, name, "/srv/"+name); err != nil {
			t.Fatal(err)
		}
	}

	apps, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(apps) != len(want) {
		t.Fatalf("List returned %d entries, want %d", len(apps), len(want))
	}
	for i, app := range apps {
		if app.Name != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, app.Name, want[i])
		}
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"blog", "my-app", "app_2", "0zero", "a"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "Blog", "-app", "_app", "my app", "app/one", "app.one", "über"}
	for _, name := range invalid {
		err := ValidateName(name)
		if err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
			continue
		}
		if !errdefs.IsUsage(err) {
			t.Errorf("ValidateName(%q) = %v, want UsageError", name, err)
		}
	}
}
