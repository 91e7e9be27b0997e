package update

import (
	"context"
	"fmt"
	"testing"

	"dcm/internal/testutils"
	"dcm/internal/version"
)

func TestChannelOf(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"v1.4.0", "stable"},
		{"1.4.0", "stable"},
		{"v1.5.0-nightly.20260812", "nightly"},
		{"v1.5.0-nightly", "nightly"},
		{"v0.0.0-dev", "dev"},
		{"v2.0.0-rc.1", "rc"},
		{"garbage-nightly.1", "nightly"},
		{"garbage", "stable"},
	}

	var cases []testutils.TestCase
	for _, tt := range tests {
		actual := ChannelOf(tt.version)
		cases = append(cases, testutils.TestCase{
			Input:    tt.version,
			Expected: tt.expected,
			Actual:   actual,
			Pass:     actual == tt.expected,
		})
	}
	testutils.PrintTestTable(t, cases)
}

func TestNewerThan(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"v1.0.1", "v1.0.0", true},
		{"1.0.1", "v1.0.0", true},
		{"v1.0.0", "v1.0.0", false},
		{"v1.0.0", "v1.0.1", false},
		{"v2.0.0", "v1.9.9", true},
		{"v1.10.0", "v1.9.0", true},
		{"v1.0.0", "v1.0.0-nightly.1", true},
		{"v1.0.0-nightly.2", "v1.0.0-nightly.1", true},
		{"not-a-version", "v1.0.0", false},
		{"v1.0.0", "not-a-version", false},
	}

	var cases []testutils.TestCase
	for _, tt := range tests {
		actual := newerThan(tt.a, tt.b)
		cases = append(cases, testutils.TestCase{
			Input:    fmt.Sprintf("%s vs %s", tt.a, tt.b),
			Expected: fmt.Sprintf("%t", tt.expected),
			Actual:   fmt.Sprintf("%t", actual),
			Pass:     actual == tt.expected,
		})
	}
	testutils.PrintTestTable(t, cases)
}

// fakeRelease points the release seams at a canned answer and counts
// how often the binary would have been replaced.
func fakeRelease(t *testing.T, current, latest string, detectErr error) *int {
	t.Helper()
	origVersion := version.Version
	origDetect, origApply := detectLatest, applyLatest
	version.Version = current

	var applied int
	detectLatest = func(ctx context.Context, channel string) (string, bool, error) {
		if detectErr != nil {
			return "", false, detectErr
		}
		return latest, true, nil
	}
	applyLatest = func(ctx context.Context, channel string) error {
		applied++
		return nil
	}
	t.Cleanup(func() {
		version.Version = origVersion
		detectLatest = origDetect
		applyLatest = origApply
	})
	return &applied
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("update available", func(t *testing.T) {
		fakeRelease(t, "v1.4.0", "v1.5.0", nil)

		st, err := Check(ctx)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !st.UpdateAvailable || st.LatestVersion != "v1.5.0" || st.Channel != "stable" {
			t.Errorf("got %+v", st)
		}
	})

	t.Run("already current", func(t *testing.T) {
		fakeRelease(t, "v1.5.0", "v1.5.0", nil)

		st, err := Check(ctx)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if st.UpdateAvailable {
			t.Errorf("no update expected for the same version, got %+v", st)
		}
	})

	t.Run("channel mismatch is ignored", func(t *testing.T) {
		fakeRelease(t, "v1.5.0-nightly.20260812", "v1.6.0", nil)

		st, err := Check(ctx)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if st.UpdateAvailable {
			t.Errorf("a stable release must not count as an update for a nightly build, got %+v", st)
		}
	})

	t.Run("detect failure", func(t *testing.T) {
		fakeRelease(t, "v1.4.0", "", fmt.Errorf("github unreachable"))

		if _, err := Check(ctx); err == nil {
			t.Fatal("Check: expected the detect failure to propagate")
		}
	})
}

func TestSelfUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("check mode never applies", func(t *testing.T) {
		applied := fakeRelease(t, "v1.4.0", "v1.5.0", nil)

		if err := SelfUpdate(ctx, Options{Check: true}); err != nil {
			t.Fatalf("SelfUpdate --check: %v", err)
		}
		if *applied != 0 {
			t.Errorf("check mode must not touch the binary, applied %d times", *applied)
		}
	})

	t.Run("applies with yes", func(t *testing.T) {
		applied := fakeRelease(t, "v1.4.0", "v1.5.0", nil)

		if err := SelfUpdate(ctx, Options{Yes: true}); err != nil {
			t.Fatalf("SelfUpdate: %v", err)
		}
		if *applied != 1 {
			t.Errorf("expected one update, applied %d times", *applied)
		}
	})

	t.Run("up to date without force does nothing", func(t *testing.T) {
		applied := fakeRelease(t, "v1.5.0", "v1.5.0", nil)

		if err := SelfUpdate(ctx, Options{Yes: true}); err != nil {
			t.Fatalf("SelfUpdate: %v", err)
		}
		if *applied != 0 {
			t.Errorf("an up-to-date binary must not be replaced, applied %d times", *applied)
		}
	})

	t.Run("force re-applies the current version", func(t *testing.T) {
		applied := fakeRelease(t, "v1.5.0", "v1.5.0", nil)

		if err := SelfUpdate(ctx, Options{Force: true, Yes: true}); err != nil {
			t.Fatalf("SelfUpdate --force: %v", err)
		}
		if *applied != 1 {
			t.Errorf("expected one forced re-apply, applied %d times", *applied)
		}
	})
}
