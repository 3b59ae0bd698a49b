package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/export"
)

// ExportFlags are shared by the export subcommands.
type ExportFlags struct {
	Out string `help:"Directory to write CSV files to." type:"path"`
}

func (f ExportFlags) exporter(ctx *Context) (*export.Exporter, error) {
	dir, err := config.ExportDir(f.Out, ctx.ConfigDir)
	if err != nil {
		return nil, err
	}
	return export.NewExporter(ctx.Store, ctx.Clock, dir), nil
}

type ExportHabitsCmd struct {
	ExportFlags `embed:""`
}

func (c *ExportHabitsCmd) Run(ctx *Context) error {
	exp, err := c.exporter(ctx)
	if err != nil {
		return err
	}
	path, err := exp.Habits()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.success("Habits exported to: %s", path)
	return nil
}

type ExportEntriesCmd struct {
	ExportFlags `embed:""`
}

func (c *ExportEntriesCmd) Run(ctx *Context) error {
	exp, err := c.exporter(ctx)
	if err != nil {
		return err
	}
	path, err := exp.HabitEntries()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.success("Habit entries exported to: %s", path)
	return nil
}

type ExportReportCmd struct {
	ExportFlags `embed:""`
	Month string `help:"Month to report on (YYYY-MM). Defaults to the current month."`
}

func (c *ExportReportCmd) Run(ctx *Context) error {
	var month time.Time
	if c.Month != "" {
		var err error
		month, err = time.ParseInLocation(constants.MonthFormat, c.Month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
	}

	exp, err := c.exporter(ctx)
	if err != nil {
		return err
	}
	path, err := exp.Report(month)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.success("Monthly report exported to: %s", path)
	return nil
}
