package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/daylog/internal/backup"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/storage/memory"
)

// BackupVerifyCmd checks a backup by importing it into a scratch in-memory
// store. Nothing in the configured store is touched.
type BackupVerifyCmd struct {
	BackupFile string `arg:"" optional:"" default:"latest" help:"Path or filename of the backup to check, or 'latest'."`
}

func (c *BackupVerifyCmd) Run(ctx *Context) error {
	path, err := ctx.Backups.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	defer f.Close()

	env, err := backup.Decode(f)
	if err != nil {
		return err
	}
	if err := backup.CheckVersion(env.Version); err != nil {
		return err
	}

	ctx.printf("Backup: %s\n", filepath.Base(path))
	ctx.printf("Format version: %d\n", env.Version)
	if !env.Timestamp.IsZero() {
		ctx.printf("Created: %s\n", env.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}

	result, err := backup.NewEngine(memory.NewStore()).Import(env, nil)
	if err != nil {
		return fmt.Errorf("backup cannot be restored: %w", err)
	}

	ctx.println()
	ctx.success("%s", result.Message())
	reportAbsorbed(ctx, result)
	return nil
}
