package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/daylog/internal/storage"
)

// ResetCmd clears every managed entity without restoring anything.
type ResetCmd struct {
	Yes            bool `short:"y" help:"Do not ask for confirmation."`
	Force          bool `help:"Reset even if another daylog process is running."`
	NoSafetyBackup bool `help:"Skip the backup of current data taken before resetting."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.guard(c.Force); err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm("Delete all data?",
			"Every collection, tag, habit, habit entry and journal entry will be removed.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Reset cancelled.")
			return nil
		}
	}

	if !c.NoSafetyBackup {
		path, err := ctx.Backups.Create(nil)
		if err != nil {
			return fmt.Errorf("failed to back up current data before reset: %w", err)
		}
		ctx.printf("Current data saved to: %s\n", filepath.Base(path))
	}

	cleared, err := ctx.Engine.Reset()
	total := 0
	for _, kind := range storage.AllKinds {
		total += cleared[kind]
	}
	if err != nil {
		return fmt.Errorf("reset incomplete after removing %s: %w", english.Plural(total, "record", ""), err)
	}

	ctx.success("Removed %s", english.Plural(total, "record", ""))
	return nil
}
