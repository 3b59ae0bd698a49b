package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// ErrNotFound is returned when a backup name resolves to no file.
var ErrNotFound = errors.New("backup file not found")

// Info describes one backup file on disk
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager stores Engine output as timestamped files in one directory and
// keeps the newest MaxBackups of them.
type Manager struct {
	engine     *Engine
	backupDir  string
	maxBackups int
}

func NewManager(engine *Engine, backupDir string) *Manager {
	return &Manager{
		engine:     engine,
		backupDir:  backupDir,
		maxBackups: constants.MaxBackups,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and rotates old ones.
func (m *Manager) Create(fn ProgressFunc) (string, error) {
	path, err := m.create(fn)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

// create writes a backup without rotating, so a safety backup taken before
// a restore can never push out the file being restored.
func (m *Manager) create(fn ProgressFunc) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("%w: failed to create backup directory: %v", derrors.ErrIO, err)
	}

	env, err := m.engine.Encode(fn)
	if err != nil {
		return "", err
	}

	path, err := m.uniquePath(env.Timestamp.Local())
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(m.backupDir, ".daylog-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := Write(tmp, env); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	committed = true

	logger.Debug("Backup written", "path", path)
	return path, nil
}

// uniquePath names a backup with minute precision, falling back to seconds
// and then a counter when the name is taken.
func (m *Manager) uniquePath(now time.Time) (string, error) {
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := name(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format(secondLayout)
	path = name(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List returns all backups in the directory, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseBackupName extracts the timestamp from daylog-YYYYMMDD-HHMM[SS][-N].json.
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Resolve finds the file a user named: a path that exists as given, or a
// file name inside the backup directory. "latest" picks the newest backup.
func (m *Manager) Resolve(name string) (string, error) {
	if name == "latest" {
		backups, err := m.List()
		if err != nil {
			return "", err
		}
		if len(backups) == 0 {
			return "", fmt.Errorf("%w: no backups in %s", ErrNotFound, m.backupDir)
		}
		return backups[0].Path, nil
	}

	if exists(name) {
		return filepath.Abs(name)
	}
	if !filepath.IsAbs(name) {
		candidate := filepath.Join(m.backupDir, name)
		if exists(candidate) {
			return candidate, nil
		}
		return "", fmt.Errorf("%w: tried %s and %s", ErrNotFound, name, m.backupDir)
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// RestoreOptions controls Manager.Restore.
type RestoreOptions struct {
	// SafetyBackup writes a backup of the current data before restoring.
	SafetyBackup bool
}

// Restore replaces the store with the backup at path. With SafetyBackup the
// current data is first saved under the backup directory; its path is
// returned so the caller can report it.
func (m *Manager) Restore(path string, opts RestoreOptions, fn ProgressFunc) (Result, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return newResult(), "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	defer f.Close()

	env, err := Decode(f)
	if err != nil {
		return newResult(), "", err
	}
	if err := CheckVersion(env.Version); err != nil {
		return newResult(), "", err
	}

	var safety string
	if opts.SafetyBackup {
		safety, err = m.create(nil)
		if err != nil {
			return newResult(), "", fmt.Errorf("failed to back up current data before restore: %w", err)
		}
		logger.Info("Created safety backup", "path", safety)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return newResult(), safety, fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	result, err := m.engine.Restore(f, fn)
	return result, safety, err
}
