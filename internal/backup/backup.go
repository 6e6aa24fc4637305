// Package backup manages timestamped snapshots of the todo file.
//
// Each backup is a directory under the backup root named after its creation
// time (2006-01-02_150405_000) holding the snapshot and a JSON manifest.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"

	"todo/internal/fsutil"
	"todo/internal/todotxt"
)

const (
	ManifestVersion = 1
	ManifestFile    = "manifest.json"
	SnapshotFile    = "todo.txt"
)

const (
	nameLayout = "2006-01-02_150405"
	dirPerm    = 0700
	filePerm   = 0600
)

// ErrNoBackups is returned by Latest when the backup root is empty.
var ErrNoBackups = errors.New("no backups available")

// NotFoundError reports a backup name with no directory behind it.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "backup not found: " + e.Name
}

// Stats counts the tasks in a snapshot.
type Stats struct {
	Tasks     int `json:"tasks"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Manifest is stored beside each snapshot.
type Manifest struct {
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	Source     string    `json:"source"`
	Stats      Stats     `json:"stats"`
}

// Info describes one backup on disk.
type Info struct {
	Manifest
	Name string
	Path string
}

// Manager creates, lists, restores and prunes backups of one todo file.
type Manager struct {
	fs         afero.Fs
	todoFile   string
	root       string
	appVersion string
	now        func() time.Time
}

// NewManager returns a manager that snapshots todoFile into root.
func NewManager(afs afero.Fs, todoFile, root, appVersion string) *Manager {
	return &Manager{
		fs:         afs,
		todoFile:   todoFile,
		root:       root,
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Create snapshots the todo file and returns the backup name. A missing
// todo file is snapshotted as empty.
func (m *Manager) Create() (string, error) {
	data, err := fsutil.ReadFileIfExists(m.fs, m.todoFile)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", m.todoFile, err)
	}

	now := m.now()
	name := formatName(now)
	dir := m.dir(name)
	if exists, _ := afero.DirExists(m.fs, dir); exists {
		return "", fmt.Errorf("backup %s already exists", name)
	}
	if err := m.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Source:     m.todoFile,
		Stats:      countTasks(data),
	}
	if err := m.writeBackup(dir, data, manifest); err != nil {
		_ = m.fs.RemoveAll(dir)
		return "", err
	}
	return name, nil
}

func (m *Manager) writeBackup(dir string, data []byte, manifest Manifest) error {
	if err := fsutil.WriteFileAtomic(m.fs, filepath.Join(dir, SnapshotFile), data, filePerm); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(m.fs, filepath.Join(dir, ManifestFile), raw, filePerm); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// List returns all backups, newest first. Directories whose name is not a
// backup timestamp are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := afero.ReadDir(m.fs, m.root)
	if err != nil {
		if exists, _ := afero.DirExists(m.fs, m.root); !exists {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if info, err := m.info(entry.Name()); err == nil {
			backups = append(backups, *info)
		}
	}
	slices.SortFunc(backups, func(a, b Info) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// Latest returns the newest backup, or ErrNoBackups.
func (m *Manager) Latest() (*Info, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, ErrNoBackups
	}
	return &backups[0], nil
}

// Get returns the named backup.
func (m *Manager) Get(name string) (*Info, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	return m.info(name)
}

// Restore replaces the todo file with the named snapshot. The current file
// is backed up first; that safety backup's name is returned, also on a
// failed write.
func (m *Manager) Restore(name string) (string, error) {
	if err := m.checkName(name); err != nil {
		return "", err
	}

	data, err := afero.ReadFile(m.fs, filepath.Join(m.dir(name), SnapshotFile))
	if err != nil {
		return "", fmt.Errorf("read snapshot %s: %w", name, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("snapshot %s is not valid UTF-8 text", name)
	}

	safety, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("create safety backup: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.todoFile), dirPerm); err == nil {
		err = fsutil.WriteFileAtomic(m.fs, m.todoFile, data, filePerm)
	}
	if err != nil {
		return safety, fmt.Errorf("restore %s (safety backup: %s): %w", name, safety, err)
	}
	return safety, nil
}

// Prune deletes all but the keep most recent backups and returns how many
// it removed.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}

	backups, err := m.List()
	if err != nil || len(backups) <= keep {
		return 0, err
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.fs.RemoveAll(b.Path); err != nil {
			return deleted, fmt.Errorf("delete backup %s: %w", b.Name, err)
		}
		deleted++
	}
	return deleted, nil
}

func (m *Manager) dir(name string) string {
	return filepath.Join(m.root, name)
}

// checkName rejects names that are not backup timestamps, which also
// keeps callers inside the backup root, and names with no directory.
func (m *Manager) checkName(name string) error {
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if exists, _ := afero.DirExists(m.fs, m.dir(name)); !exists {
		return &NotFoundError{Name: name}
	}
	return nil
}

// info reads the manifest. Backups without a readable manifest still list,
// dated by their name and with zero stats.
func (m *Manager) info(name string) (*Info, error) {
	info := &Info{Name: name, Path: m.dir(name)}

	raw, err := afero.ReadFile(m.fs, filepath.Join(info.Path, ManifestFile))
	if err == nil {
		err = json.Unmarshal(raw, &info.Manifest)
	}
	if err != nil {
		created, perr := parseName(name)
		if perr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		info.Manifest = Manifest{CreatedAt: created}
	}
	return info, nil
}

func countTasks(data []byte) Stats {
	tasks := todotxt.ParseFile(string(data))
	s := Stats{Tasks: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}

func formatName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/int(time.Millisecond))
}

// parseName reverses formatName. Names without the millisecond suffix are
// accepted too.
func parseName(name string) (time.Time, error) {
	stamp, ms := name, ""
	if len(name) > len(nameLayout) {
		var ok bool
		stamp = name[:len(nameLayout)]
		if ms, ok = strings.CutPrefix(name[len(nameLayout):], "_"); !ok || len(ms) != 3 {
			return time.Time{}, fmt.Errorf("invalid backup name %q", name)
		}
	}

	t, err := time.ParseInLocation(nameLayout, stamp, time.Local)
	if err != nil || ms == "" {
		return t, err
	}
	n, err := strconv.Atoi(ms)
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("invalid backup name %q", name)
	}
	return t.Add(time.Duration(n) * time.Millisecond), nil
}
