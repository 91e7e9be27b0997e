package backup

import (
	"os"
)

// CopyFile copies a file from src to dst. Backups copy, never move:
// the source directory must stay intact no matter how the backup ends.
func CopyFile(src, dst string) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, input, 0o644)
}
