package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/daylog/internal/logger"
)

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run calls work on a worker goroutine and draws its progress on out. When
// out is not a terminal, work runs directly with a nil reporter. Run always
// waits for work to return and passes its error through.
func Run(title string, out io.Writer, work func(report func(float64)) error) error {
	if !IsTerminal(out) {
		return work(nil)
	}

	p := tea.NewProgram(NewModel(title), tea.WithOutput(out), tea.WithInput(nil))
	errc := make(chan error, 1)
	go func() {
		errc <- work(func(v float64) { p.Send(ProgressMsg(v)) })
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		logger.Warn("Progress display failed", "error", err)
	}
	return <-errc
}
