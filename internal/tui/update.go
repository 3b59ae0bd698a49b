package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - padding*2
		if m.bar.Width > maxWidth {
			m.bar.Width = maxWidth
		}
		return m, nil

	case ProgressMsg:
		v := float64(msg)
		if v > 1 {
			v = 1
		}
		if v > m.percent {
			m.percent = v
		}
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}
