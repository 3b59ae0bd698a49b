package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/daylog/internal/constants"
)

var userHomeDirFunc = os.UserHomeDir

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := userHomeDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the expanded daylog configuration directory
func Dir() (string, error) {
	return ExpandHome(constants.DefaultConfigDir)
}

// FilePath returns the YAML config file location inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, constants.ConfigFileName)
}

// LoadEnv loads <dir>/.env into the process environment. Variables that are
// already set are left alone and a missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, constants.EnvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// BackupDir picks where backups live: the explicit override, next to a
// SQLite database, or under the config directory otherwise.
func BackupDir(override, storePath, configDir string) (string, error) {
	if override != "" {
		return ExpandHome(override)
	}
	if storePath != "" && storePath != PostgresConfigPath {
		return filepath.Join(filepath.Dir(storePath), constants.BackupDirName), nil
	}
	return filepath.Join(configDir, constants.BackupDirName), nil
}

// ExportDir mirrors BackupDir for CSV exports.
func ExportDir(override, configDir string) (string, error) {
	if override != "" {
		return ExpandHome(override)
	}
	return filepath.Join(configDir, constants.ExportDirName), nil
}
