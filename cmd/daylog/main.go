package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daylog/internal/cli"
	"github.com/julianstephens/daylog/internal/config"
	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/storage"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"SQLite database path, PostgreSQL connection string without a password, or 'keyring'." env:"DAYLOG_CONFIG" default:"~/.config/daylog/daylog.db"`
	Debug     bool   `help:"Log debug output to stderr." env:"DAYLOG_DEBUG"`
	BackupDir string `help:"Directory holding backups. Defaults to a backups directory next to the database." env:"DAYLOG_BACKUP_DIR" type:"path"`

	Init   cli.InitCmd   `cmd:"" help:"Initialize daylog storage."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Reset  cli.ResetCmd  `cmd:"" help:"Delete all collections, tags, habits and journal entries."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Replace all data with a backup."`
		Verify  cli.BackupVerifyCmd  `cmd:"" help:"Check that a backup can be restored without restoring it."`
	} `cmd:"" help:"Manage backups."`
	Export struct {
		Habits  cli.ExportHabitsCmd  `cmd:"" help:"Export habits as CSV."`
		Entries cli.ExportEntriesCmd `cmd:"" help:"Export habit entries as CSV."`
		Report  cli.ExportReportCmd  `cmd:"" help:"Export a monthly habit report as CSV."`
	} `cmd:"" help:"Export data as CSV."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the connection string kept in the OS keyring."`
	DebugCmd cli.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	configDir, err := config.Dir()
	if err != nil {
		derrors.Fatal(err)
	}
	// .env values must be in the environment before kong reads env tags.
	if err := config.LoadEnv(configDir); err != nil {
		fmt.Fprintln(os.Stderr, derrors.Format(err))
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Backup, restore and export for your journal and habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAML, config.FilePath(configDir)),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := ctx.Command()
	if strings.HasPrefix(command, "keyring") {
		derrors.Fatal(ctx.Run(cli.NewContext(nil, configDir, "")))
		return
	}

	store, err := config.OpenStore(CLI.Config)
	if err != nil {
		derrors.Fatal(err)
	}
	backupDir, err := config.BackupDir(CLI.BackupDir, store.GetConfigPath(), configDir)
	if err != nil {
		derrors.Fatal(err)
	}

	// init creates the store itself
	if !strings.HasPrefix(command, "init") {
		if err := store.Load(); err != nil {
			derrors.Fatal(err)
		}
	}

	err = run(ctx, store, configDir, backupDir)
	derrors.Fatal(err)
}

func run(ctx *kong.Context, store storage.Provider, configDir, backupDir string) error {
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}()
	return ctx.Run(cli.NewContext(store, configDir, backupDir))
}
