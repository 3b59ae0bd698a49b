package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	padding  = 2
	maxWidth = 60
)

// ProgressMsg carries a completion fraction in [0, 1] from the worker.
type ProgressMsg float64

type doneMsg struct{}

// Model renders a single labelled progress bar until the worker reports done.
type Model struct {
	title   string
	bar     progress.Model
	percent float64
	done    bool
}

func NewModel(title string) Model {
	return Model{
		title: title,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Percent returns the last fraction received.
func (m Model) Percent() float64 {
	return m.percent
}

// Done reports whether the worker has finished.
func (m Model) Done() bool {
	return m.done
}
