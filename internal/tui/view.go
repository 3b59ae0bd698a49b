package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.done {
		return ""
	}
	pad := strings.Repeat(" ", padding)
	return fmt.Sprintf("%s%s\n%s%s %s\n",
		pad, TitleStyle.Render(m.title),
		pad, m.bar.ViewAs(m.percent), MutedStyle.Render(fmt.Sprintf("%3.0f%%", m.percent*100)),
	)
}
