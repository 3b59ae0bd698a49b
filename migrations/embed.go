// Package migrations embeds the schema migrations for every supported backend.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// For returns the migration files of one backend ("sqlite" or "postgres").
func For(dialect string) (fs.FS, error) {
	sub, err := fs.Sub(FS, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", dialect, err)
	}
	return sub, nil
}
