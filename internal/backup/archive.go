package backup

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dcm/internal/constants"
)

// packDir writes the contents of dir into a tar.gz at destPath. The
// archive is written to a temp file in the destination directory and
// renamed into place, so a crash mid-write never leaves a partial
// archive behind.
func packDir(dir, destPath string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-archive-*")
	if err != nil {
		return fmt.Errorf("creating archive temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	gz := gzip.NewWriter(tmp)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if p == dir {
			return nil
		}

		rel, rerr := filepath.Rel(dir, p)
		if rerr != nil {
			return rerr
		}

		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}

		// Staging only ever holds plain files and directories.
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		hdr, herr := tar.FileInfoHeader(info, "")
		if herr != nil {
			return herr
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}

		if terr := tw.WriteHeader(hdr); terr != nil {
			return terr
		}
		if info.IsDir() {
			return nil
		}

		src, oerr := os.Open(p)
		if oerr != nil {
			return oerr
		}
		defer src.Close()
		_, cerr := io.Copy(tw, src)
		return cerr
	})
	if walkErr != nil {
		err = fmt.Errorf("archiving '%s': %w", dir, walkErr)
		return err
	}

	if cerr := tw.Close(); cerr != nil {
		err = fmt.Errorf("finalizing archive: %w", cerr)
		return err
	}
	if cerr := gz.Close(); cerr != nil {
		err = fmt.Errorf("finalizing archive: %w", cerr)
		return err
	}
	if cerr := tmp.Close(); cerr != nil {
		err = fmt.Errorf("finalizing archive: %w", cerr)
		return err
	}

	if rerr := os.Rename(tmpPath, destPath); rerr != nil {
		err = fmt.Errorf("moving archive into place: %w", rerr)
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// unpackArchive extracts archivePath into destDir. Entries that would
// escape destDir are rejected outright; an archive is user-supplied
// input on restore.
func unpackArchive(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading archive '%s': %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive '%s': %w", archivePath, err)
		}

		name := filepath.FromSlash(hdr.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("archive entry '%s' escapes the extraction directory", hdr.Name)
		}
		target := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("extracting '%s': %w", hdr.Name, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
		default:
			// Links and special files never appear in dcm archives.
		}
	}
}

// ArchiveName builds the archive file name for an app and timestamp
// string.
func ArchiveName(app, timestamp string) string {
	return fmt.Sprintf("%s_%s.tar.gz", app, timestamp)
}

// parseArchiveName splits an archive file name back into app name and
// creation timestamp. Returns ok=false for files that are not dcm
// archives.
func parseArchiveName(fileName string) (app string, created string, ok bool) {
	if !strings.HasSuffix(fileName, ".tar.gz") {
		return "", "", false
	}
	stem := strings.TrimSuffix(fileName, ".tar.gz")

	// The timestamp layout itself contains an underscore, so the split
	// point is the second-to-last one.
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return "", "", false
	}
	created = parts[len(parts)-2] + "_" + parts[len(parts)-1]
	app = strings.Join(parts[:len(parts)-2], "_")
	if app == "" {
		return "", "", false
	}
	if len(created) != len(constants.BackupTimestampLayout) {
		return "", "", false
	}
	return app, created, true
}
