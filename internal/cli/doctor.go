package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daylog/internal/migration"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/storage/sqlstore"
	"github.com/julianstephens/daylog/migrations"
)

type DoctorCmd struct{}

type check struct {
	name string
	fn   func(*Context) (string, error)
	// warnOnly checks never fail the command.
	warnOnly bool
}

var checks = []check{
	{name: "Database reachable", fn: checkDatabase},
	{name: "Schema up to date", fn: checkSchema},
	{name: "Backup directory writable", fn: checkBackupDir},
	{name: "Backups present", fn: checkBackupsPresent, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	for _, c := range checks {
		detail, err := c.fn(ctx)
		switch {
		case err == nil:
			if detail != "" {
				ctx.success("%s: OK (%s)", c.name, detail)
			} else {
				ctx.success("%s: OK", c.name)
			}
		case c.warnOnly:
			ctx.warn("%s: WARNING", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkDatabase(ctx *Context) (string, error) {
	counts, err := ctx.Store.Counts()
	if err != nil {
		return "", fmt.Errorf("failed to query database: %w", err)
	}
	total := 0
	for _, kind := range storage.AllKinds {
		total += counts[kind]
	}
	return humanize.Comma(int64(total)) + " records", nil
}

// sqlBacked is implemented by providers built on sqlstore.
type sqlBacked interface {
	DB() *sql.DB
	Dialect() sqlstore.Dialect
}

func checkSchema(ctx *Context) (string, error) {
	backed, ok := ctx.Store.(sqlBacked)
	if !ok || backed.DB() == nil {
		return "no schema", nil
	}

	files, err := migrations.For(backed.Dialect().String())
	if err != nil {
		return "", err
	}
	runner := migration.NewRunner(backed.DB(), files)

	current, err := runner.GetCurrentVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get latest schema version: %w", err)
	}

	switch {
	case current > latest:
		return "", fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return "", fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return fmt.Sprintf("version %d", current), nil
}

func checkBackupDir(ctx *Context) (string, error) {
	dir := ctx.Backups.Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return "", err
	}
	probe.Close()
	os.Remove(probe.Name())
	return dir, nil
}

func checkBackupsPresent(ctx *Context) (string, error) {
	backups, err := ctx.Backups.List()
	if err != nil {
		return "", fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("no backups found - consider creating one with 'daylog backup create'")
	}
	latest := backups[0]
	return fmt.Sprintf("latest %s, %s", filepath.Base(latest.Path), humanize.RelTime(latest.Timestamp, ctx.Clock.Now(), "ago", "from now")), nil
}
