package filex

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// IsEmptyDir reports whether path is missing or an empty directory.
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// AtomicWriteFile writes data to a temp file in the same directory and then renames it.
// On Windows, callers should remove the destination file first if it already exists.
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	return atomicWrite(filename, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func atomicWrite(filename string, perm os.FileMode, fill func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("atomic rename failed: %w", err)
	}
	return nil
}

// CopyTree copies every regular file below src into dst, keeping relative
// paths and file modes. Each file is written atomically. It returns the
// number of files copied.
func CopyTree(src, dst string) (int, error) {
	root, err := filepath.Abs(src)
	if err != nil {
		return 0, err
	}
	if err := EnsureDir(dst); err != nil {
		return 0, err
	}

	copied := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return EnsureDir(target)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		if err := atomicWrite(target, info.Mode().Perm(), func(w io.Writer) error {
			_, err := io.Copy(w, in)
			return err
		}); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		copied++
		return nil
	})
	return copied, err
}

// ExtractZipFile extracts a zip archive to destDir with Zip-Slip protection.
func ExtractZipFile(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := EnsureDir(destDir); err != nil {
		return err
	}
	root, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	root = filepath.Clean(root) + string(os.PathSeparator)

	for _, f := range r.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		name = strings.TrimPrefix(name, "/")
		absTarget, err := filepath.Abs(filepath.Join(destDir, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		absTarget = filepath.Clean(absTarget)
		if !strings.HasPrefix(absTarget+string(os.PathSeparator), root) {
			return fmt.Errorf("zip entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := EnsureDir(absTarget); err != nil {
				return err
			}
			continue
		}
		if err := extractEntry(f, absTarget); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, target string) error {
	if err := EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, f.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
