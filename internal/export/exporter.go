package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/clock"

	"github.com/julianstephens/daylog/internal/constants"
	derrors "github.com/julianstephens/daylog/internal/errors"
	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/storage"
)

const stampLayout = "20060102"

// Exporter reads from a store and writes CSV files into one directory.
type Exporter struct {
	reader storage.Reader
	clock  clock.Clock
	dir    string
}

func NewExporter(reader storage.Reader, clk clock.Clock, dir string) *Exporter {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Exporter{reader: reader, clock: clk, dir: dir}
}

// Dir returns the output directory
func (e *Exporter) Dir() string {
	return e.dir
}

// Habits writes habits-YYYYMMDD.csv and returns its path.
func (e *Exporter) Habits() (string, error) {
	habits, err := e.reader.GetAllHabits()
	if err != nil {
		return "", fmt.Errorf("failed to load habits: %w", err)
	}
	collections, err := e.reader.GetAllCollections()
	if err != nil {
		return "", fmt.Errorf("failed to load collections: %w", err)
	}
	return e.write("habits", func(w io.Writer) error {
		return Habits(w, habits, collections)
	})
}

// HabitEntries writes habit-entries-YYYYMMDD.csv and returns its path.
func (e *Exporter) HabitEntries() (string, error) {
	entries, err := e.reader.GetAllHabitEntries()
	if err != nil {
		return "", fmt.Errorf("failed to load habit entries: %w", err)
	}
	habits, err := e.reader.GetAllHabits()
	if err != nil {
		return "", fmt.Errorf("failed to load habits: %w", err)
	}
	return e.write("habit-entries", func(w io.Writer) error {
		return HabitEntries(w, entries, habits)
	})
}

// Report writes report-YYYY-MM-YYYYMMDD.csv for the month containing month.
// A zero month means the current one.
func (e *Exporter) Report(month time.Time) (string, error) {
	if month.IsZero() {
		month = e.clock.Now().Local()
	}
	habits, err := e.reader.GetAllHabits()
	if err != nil {
		return "", fmt.Errorf("failed to load habits: %w", err)
	}
	entries, err := e.reader.GetAllHabitEntries()
	if err != nil {
		return "", fmt.Errorf("failed to load habit entries: %w", err)
	}
	report := BuildMonthlyReport(habits, entries, month)
	return e.write("report-"+report.Month.Format(constants.MonthFormat), func(w io.Writer) error {
		return MonthlyReport(w, report)
	})
}

func (e *Exporter) write(name string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return "", fmt.Errorf("%w: failed to create export directory: %v", derrors.ErrIO, err)
	}

	path := filepath.Join(e.dir, name+"-"+e.clock.Now().Local().Format(stampLayout)+".csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: failed to write %s: %v", derrors.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", derrors.ErrIO, err)
	}

	logger.Debug("Export written", "path", path)
	return path, nil
}
