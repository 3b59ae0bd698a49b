package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daylog/internal/backup"
	"github.com/julianstephens/daylog/internal/storage"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" help:"Show database path."`
	Counts *DebugCountsCmd `cmd:"" help:"Show stored entity counts as JSON."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump stored data in backup format."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{
		"path":    ctx.Store.GetConfigPath(),
		"backups": ctx.Backups.Dir(),
	})
}

type DebugCountsCmd struct{}

func (cmd *DebugCountsCmd) Run(ctx *Context) error {
	counts, err := ctx.Store.Counts()
	if err != nil {
		return fmt.Errorf("failed to count entities: %w", err)
	}
	return printJSON(ctx, counts)
}

type DebugDumpCmd struct {
	Kind string `arg:"" optional:"" enum:",collections,tags,habits,habit_entries,journal_entries" default:"" help:"Only dump one kind."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	env, err := ctx.Engine.Encode(nil)
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	var records interface{}
	switch storage.Kind(cmd.Kind) {
	case "":
		return backup.Write(ctx.Out, env)
	case storage.KindCollections:
		records = env.Collections
	case storage.KindTags:
		records = env.Tags
	case storage.KindHabits:
		records = env.Habits
	case storage.KindHabitEntries:
		records = env.HabitEntries
	case storage.KindJournalEntries:
		records = env.JournalEntries
	default:
		return fmt.Errorf("unknown kind: %s", cmd.Kind)
	}
	return printJSON(ctx, records)
}

func printJSON(ctx *Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
