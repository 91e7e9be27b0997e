package system

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"

	"dcm/internal/logger"
)

// FixStateFilePermissions makes a state file and its parent directory
// writable by the current user again (0644 file, 0755 dir). It is the
// retry step for permission-denied failures on the registry and config
// files; any other failure mode is left alone.
func FixStateFilePermissions(ctx context.Context, path string) error {
	if runtime.GOOS == "windows" || path == "" {
		return nil
	}

	if isSystemPath(path) {
		logger.Error(ctx, "Refusing to change permissions on system path '{{_Folder_}}%s{{|-|}}'.", path)
		return nil
	}

	dir := filepath.Dir(path)
	logger.Info(ctx, "Fixing permissions for '{{_File_}}%s{{|-|}}'", path)

	if err := os.Chmod(dir, 0o755); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Chmod(path, 0o644); err != nil && !os.IsNotExist(err) {
		return err
	}

	uid, gid := GetIDs()
	if uid > 0 {
		// Best effort: chown only succeeds when running privileged.
		_ = os.Chown(path, uid, gid)
	}
	return nil
}

// GetIDs returns the effective user and group IDs, preferring
// SUDO_UID/SUDO_GID so files end up owned by the invoking user when the
// command runs under sudo.
func GetIDs() (int, int) {
	uid := os.Getuid()
	if sudoUID := os.Getenv("SUDO_UID"); sudoUID != "" {
		if i, err := strconv.Atoi(sudoUID); err == nil {
			uid = i
		}
	}

	gid := os.Getgid()
	if sudoGID := os.Getenv("SUDO_GID"); sudoGID != "" {
		if i, err := strconv.Atoi(sudoGID); err == nil {
			gid = i
		}
	} else if uid != os.Getuid() {
		// Running under sudo without SUDO_GID: look the group up.
		if u, err := user.LookupId(strconv.Itoa(uid)); err == nil {
			if i, err := strconv.Atoi(u.Gid); err == nil {
				gid = i
			}
		}
	}
	return uid, gid
}

func isSystemPath(path string) bool {
	systemPaths := []string{
		"/", "/bin", "/boot", "/dev", "/etc", "/home", "/lib", "/media",
		"/mnt", "/opt", "/proc", "/root", "/sbin", "/srv", "/sys", "/tmp",
		"/usr", "/usr/include", "/usr/lib", "/usr/libexec", "/usr/local", "/usr/share",
		"/var", "/var/log", "/var/mail", "/var/spool", "/var/tmp",
	}
	for _, sp := range systemPaths {
		if path == sp {
			return true
		}
	}
	return false
}
