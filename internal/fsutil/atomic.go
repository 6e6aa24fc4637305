// Package fsutil holds the durable-write helpers shared by the file store,
// the config writer and the backup manager.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// WriteFileAtomic replaces path with data. The bytes go to a synced temp
// file in the same directory which is then renamed over path, so readers
// see either the old or the new contents.
//
// A symlinked path is resolved first so the link itself survives, and an
// existing file keeps its permission bits; perm applies to new files only.
func WriteFileAtomic(afs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	path = resolveTarget(afs, path)
	if info, statErr := afs.Stat(path); statErr == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(afs, dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = afs.Remove(tmpPath)
		}
	}()

	if err = afs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("fsync %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err = replace(afs, tmpPath, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}

	syncDir(afs, dir)
	return nil
}

// resolveTarget follows symlinks on the real filesystem. A dangling or
// unreadable link falls back to path.
func resolveTarget(afs afero.Fs, path string) string {
	if _, ok := afs.(*afero.OsFs); !ok {
		return path
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}

// replace renames src over dst. Windows refuses to rename onto an existing
// file, so there dst is removed first and the swap is not atomic.
func replace(afs afero.Fs, src, dst string) error {
	err := afs.Rename(src, dst)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if _, statErr := afs.Stat(dst); statErr != nil {
		return err
	}
	if rmErr := afs.Remove(dst); rmErr != nil {
		return err
	}
	return afs.Rename(src, dst)
}

// syncDir flushes the directory entry after a rename where the platform
// allows it.
func syncDir(afs afero.Fs, dir string) {
	f, err := afs.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}

// BestEffortBackup copies path to path+".bak". Failures are ignored; the
// caller's write goes ahead regardless.
func BestEffortBackup(afs afero.Fs, path string, perm os.FileMode) {
	if data, err := afero.ReadFile(afs, path); err == nil {
		_ = WriteFileAtomic(afs, path+".bak", data, perm)
	}
}

// ReadFileIfExists returns the file contents, or nil and no error when the
// file does not exist.
func ReadFileIfExists(afs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}
