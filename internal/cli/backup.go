package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/storage"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	var path string
	err := ctx.progress("Creating backup", func(fn backup.ProgressFunc) error {
		var err error
		path, err = ctx.Backups.Create(fn)
		return err
	})
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.success("Backup created: %s", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.Backups.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", ctx.Backups.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("CREATED", "AGE", "SIZE", "FILE")
	now := ctx.Clock.Now()
	for _, b := range backups {
		table.AddRow(
			b.Timestamp.Format("2006-01-02 15:04:05"),
			humanize.RelTime(b.Timestamp, now, "ago", "from now"),
			humanize.Bytes(uint64(b.Size)),
			filepath.Base(b.Path),
		)
	}
	ctx.println(table)
	ctx.printf("\nBackup directory: %s\n", ctx.Backups.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile     string `arg:"" optional:"" default:"latest" help:"Path or filename of the backup to restore, or 'latest'."`
	Yes            bool   `short:"y" help:"Do not ask for confirmation."`
	Force          bool   `help:"Restore even if another daylog process is running."`
	NoSafetyBackup bool   `help:"Skip the backup of current data taken before restoring."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	path, err := ctx.Backups.Resolve(c.BackupFile)
	if err != nil {
		return err
	}
	if err := ctx.guard(c.Force); err != nil {
		return err
	}

	if !c.Yes {
		description := "All collections, tags, habits and journal entries will be replaced by the backup."
		if !c.NoSafetyBackup {
			description += "\nA backup of your current data is created first."
		}
		ok, err := ctx.Confirm("Restore from "+filepath.Base(path)+"?", description)
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	var (
		result backup.Result
		safety string
	)
	err = ctx.progress("Restoring backup", func(fn backup.ProgressFunc) error {
		var err error
		result, safety, err = ctx.Backups.Restore(path, backup.RestoreOptions{SafetyBackup: !c.NoSafetyBackup}, fn)
		return err
	})
	if safety != "" {
		ctx.printf("Current data saved to: %s\n", filepath.Base(safety))
	}
	if err != nil {
		return err
	}

	ctx.success("%s", result.Message())
	reportAbsorbed(ctx, result)
	return nil
}

// reportAbsorbed lists the per-kind counts behind a restore's skipped and
// dropped totals.
func reportAbsorbed(ctx *Context, result backup.Result) {
	for _, kind := range storage.AllKinds {
		if n := result.Skipped[kind]; n > 0 {
			ctx.warn("Skipped %s in %s", english.Plural(n, "malformed record", ""), kind)
			logger.Warn("Skipped malformed records", "kind", kind, "count", n)
		}
		if n := result.DroppedRefs[kind]; n > 0 {
			ctx.warn("Dropped %s in %s", english.Plural(n, "unresolved reference", ""), kind)
		}
	}
}
