package docker

import (
	"dcm/internal/constants"
)

// Volume snapshots run inside a disposable helper container instead of
// reading /var/lib/docker directly. The container mounts the volume on
// one side and the staging directory on the other, so the only host
// requirement is a working docker CLI.

// VolumeSnapshotArgs builds the argv that archives a named volume into
// stagingDir as <key>.tar.gz. The volume is mounted read-only; a backup
// must never modify what it is backing up.
func VolumeSnapshotArgs(volumeName, stagingDir, key string) []string {
	return []string{
		"run", "--rm",
		"-v", volumeName + ":/source:ro",
		"-v", stagingDir + ":/backup",
		constants.SnapshotHelperImage,
		"tar", "-czf", "/backup/" + key + ".tar.gz", "-C", "/source", ".",
	}
}

// VolumeRestoreArgs builds the argv that unpacks <key>.tar.gz from
// snapshotDir into a named volume.
func VolumeRestoreArgs(volumeName, snapshotDir, key string) []string {
	return []string{
		"run", "--rm",
		"-v", volumeName + ":/target",
		"-v", snapshotDir + ":/backup",
		constants.SnapshotHelperImage,
		"tar", "-xzf", "/backup/" + key + ".tar.gz", "-C", "/target",
	}
}

// VolumeCreateArgs builds the argv for a volume create. Docker treats
// creating an existing volume as a no-op, which is exactly what restore
// wants.
func VolumeCreateArgs(volumeName string) []string {
	return []string{"volume", "create", volumeName}
}
