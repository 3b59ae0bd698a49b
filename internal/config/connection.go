package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/keyring"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/storage/postgres"
	"github.com/julianstephens/daylog/internal/storage/sqlite"
)

// PostgresConfigPath is what a Postgres provider reports from GetConfigPath.
const PostgresConfigPath = "postgresql"

var getConnectionStringFunc = keyring.GetConnectionString

// IsPostgres reports whether value is a PostgreSQL URI or key=value DSN.
func IsPostgres(value string) bool {
	return postgres.IsURL(value) || strings.Contains(value, "host=")
}

// OpenStore builds the provider named by value: a SQLite path, a
// PostgreSQL connection string without a password, or "keyring" for a
// connection string kept in the OS keyring. The store is not loaded.
func OpenStore(value string) (storage.Provider, error) {
	if value == "" {
		value = constants.DefaultConfigPath
	}

	if value == constants.KeyringConfigValue {
		connStr, err := getConnectionStringFunc()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring; run 'daylog keyring set' first")
			}
			return nil, err
		}
		// The keyring is allowed to hold a password.
		if err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		logger.Debug("Using connection string from keyring")
		return postgres.New(connStr), nil
	}

	if IsPostgres(value) {
		if err := postgres.ValidateConnString(value); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; use 'daylog keyring set', PGPASSWORD or ~/.pgpass instead", err)
			}
			return nil, err
		}
		return postgres.New(value), nil
	}

	path, err := ExpandHome(value)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}
