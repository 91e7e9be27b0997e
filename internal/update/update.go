// Package update checks for and applies dcm releases.
package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"

	"dcm/internal/console"
	"dcm/internal/logger"
	"dcm/internal/version"
)

// releaseSlug is the GitHub repository dcm releases are published to.
const releaseSlug = "dcm-tool/dcm"

// Status is the outcome of a release check.
type Status struct {
	Channel         string
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

// Options configure SelfUpdate.
type Options struct {
	// Check reports an available update without applying it.
	Check bool
	// Force re-applies the current version when no newer one exists.
	Force bool
	// Yes answers the confirmation prompt without asking.
	Yes bool
}

// detectLatest and applyLatest are swapped by tests so update logic can
// be exercised without the network.
var (
	detectLatest = func(ctx context.Context, channel string) (string, bool, error) {
		updater, err := newUpdater(channel)
		if err != nil {
			return "", false, err
		}
		release, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(releaseSlug))
		if err != nil || !found {
			return "", found, err
		}
		return release.Version(), true, nil
	}

	applyLatest = func(ctx context.Context, channel string) error {
		updater, err := newUpdater(channel)
		if err != nil {
			return err
		}
		_, err = updater.UpdateSelf(ctx, version.Version, selfupdate.ParseSlug(releaseSlug))
		return err
	}
)

// newUpdater configures go-selfupdate for a channel. Only the stable
// channel filters prereleases out.
func newUpdater(channel string) (*selfupdate.Updater, error) {
	return selfupdate.NewUpdater(selfupdate.Config{
		Prerelease: !strings.EqualFold(channel, "stable"),
	})
}

// ChannelOf extracts the release channel from a version string: the
// first word of the semver prerelease suffix, or "stable" when there is
// none. "v1.4.0" is stable, "v1.5.0-nightly.20260812" is nightly.
func ChannelOf(v string) string {
	pre := ""
	if sv, err := semver.NewVersion(strings.TrimPrefix(v, "v")); err == nil {
		pre = sv.Prerelease()
	} else if _, suffix, found := strings.Cut(v, "-"); found {
		pre = suffix
	}
	if pre == "" {
		return "stable"
	}
	channel, _, _ := strings.Cut(pre, ".")
	return channel
}

// CurrentChannel returns the channel of the running binary.
func CurrentChannel() string {
	return ChannelOf(version.Version)
}

// newerThan reports whether a is a strictly newer release than b. An
// unparseable version never triggers an update offer.
func newerThan(a, b string) bool {
	av, err := semver.NewVersion(strings.TrimPrefix(a, "v"))
	if err != nil {
		return false
	}
	bv, err := semver.NewVersion(strings.TrimPrefix(b, "v"))
	if err != nil {
		return false
	}
	return av.GreaterThan(bv)
}

// Check detects the newest release on the running binary's channel
// without touching anything. A latest release on a different channel is
// ignored with a warning, it never counts as an update.
func Check(ctx context.Context) (*Status, error) {
	channel := CurrentChannel()

	latest, found, err := detectLatest(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("checking for releases: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no release found on channel '%s'", channel)
	}

	st := &Status{
		Channel:        channel,
		CurrentVersion: version.Version,
		LatestVersion:  latest,
	}

	if remote := ChannelOf(latest); !strings.EqualFold(remote, channel) {
		logger.Warn(ctx, "{{_ApplicationName_}}%s{{|-|}} is on channel '{{_Branch_}}%s{{|-|}}', but the latest release is on channel '{{_Branch_}}%s{{|-|}}'. Ignoring it.", version.ApplicationName, channel, remote)
		return st, nil
	}

	st.UpdateAvailable = newerThan(latest, version.Version)
	return st, nil
}

// SelfUpdate replaces the running binary with the newest release of its
// channel. With Options.Check it only reports what it would do.
func SelfUpdate(ctx context.Context, opts Options) error {
	st, err := Check(ctx)
	if err != nil {
		return err
	}

	if opts.Check {
		if st.UpdateAvailable {
			logger.Notice(ctx, "An update for {{_ApplicationName_}}%s{{|-|}} is available: '{{_Version_}}%s{{|-|}}' (current version is '{{_Version_}}%s{{|-|}}').", version.ApplicationName, st.LatestVersion, st.CurrentVersion)
			logger.Notice(ctx, "Run '{{_UserCommand_}}%s self-update{{|-|}}' to apply it.", version.CommandName)
		} else {
			logger.Notice(ctx, "{{_ApplicationName_}}%s{{|-|}} is up to date on channel '{{_Branch_}}%s{{|-|}}'. Current version is '{{_Version_}}%s{{|-|}}'.", version.ApplicationName, st.Channel, st.CurrentVersion)
		}
		return nil
	}

	question := ""
	target := st.LatestVersion
	if st.UpdateAvailable {
		question = fmt.Sprintf("Would you like to update {{_ApplicationName_}}%s{{|-|}} from '{{_Version_}}%s{{|-|}}' to '{{_Version_}}%s{{|-|}}' now?", version.ApplicationName, st.CurrentVersion, st.LatestVersion)
	} else {
		if !opts.Force {
			logger.Notice(ctx, "{{_ApplicationName_}}%s{{|-|}} is already up to date on channel '{{_Branch_}}%s{{|-|}}'.", version.ApplicationName, st.Channel)
			logger.Notice(ctx, "Current version is '{{_Version_}}%s{{|-|}}'.", st.CurrentVersion)
			return nil
		}
		target = st.CurrentVersion
		question = fmt.Sprintf("Would you like to forcefully re-apply {{_ApplicationName_}}%s{{|-|}} update '{{_Version_}}%s{{|-|}}'?", version.ApplicationName, st.CurrentVersion)
	}

	noticePrinter := func(ctx context.Context, msg string, args ...any) {
		logger.Notice(ctx, msg, args...)
	}
	if !console.QuestionPrompt(ctx, noticePrinter, question, "Y", opts.Yes) {
		logger.Notice(ctx, "{{_ApplicationName_}}%s{{|-|}} will not be updated.", version.ApplicationName)
		return nil
	}

	logger.Notice(ctx, "Updating {{_ApplicationName_}}%s{{|-|}} to '{{_Version_}}%s{{|-|}}'.", version.ApplicationName, target)
	if err := applyLatest(ctx, st.Channel); err != nil {
		return fmt.Errorf("updating %s: %w", version.ApplicationName, err)
	}

	logger.Notice(ctx, "Updated {{_ApplicationName_}}%s{{|-|}} to '{{_Version_}}%s{{|-|}}'. Restart it to use the new version.", version.ApplicationName, target)
	return nil
}
