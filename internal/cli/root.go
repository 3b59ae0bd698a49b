package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/juju/clock"

	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/process"
	"github.com/julianstephens/daylog/internal/storage"
	"github.com/julianstephens/daylog/internal/tui"
)

// Context is handed to every command's Run method.
type Context struct {
	Store     storage.Provider
	Engine    *backup.Engine
	Backups   *backup.Manager
	Clock     clock.Clock
	ConfigDir string

	Out io.Writer
	Err io.Writer

	// Confirm asks a yes/no question. Defaults to a huh prompt.
	Confirm func(title, description string) (bool, error)
	// Exclusive fails when another daylog process is running.
	Exclusive func() error
}

// NewContext wires the engine and backup manager around store. A nil store
// is allowed for commands that never touch data.
func NewContext(store storage.Provider, configDir, backupDir string) *Context {
	ctx := &Context{
		Store:     store,
		Clock:     clock.WallClock,
		ConfigDir: configDir,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Confirm:   confirm,
		Exclusive: process.EnsureExclusive,
	}
	if store != nil {
		ctx.Engine = backup.NewEngine(store)
		ctx.Backups = backup.NewManager(ctx.Engine, backupDir)
	}
	return ctx
}

func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// guard enforces exclusive access unless force is set.
func (c *Context) guard(force bool) error {
	if force || c.Exclusive == nil {
		return nil
	}
	return c.Exclusive()
}

// progress runs work with a progress bar on stderr.
func (c *Context) progress(title string, work func(backup.ProgressFunc) error) error {
	return tui.Run(title, c.Err, func(report func(float64)) error {
		return work(report)
	})
}

func (c *Context) success(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, tui.SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (c *Context) warn(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, tui.WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}
