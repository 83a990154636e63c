package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

var startProgram = func(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

// Run shows m full screen until the user quits.
func Run(m tea.Model) error {
	return startProgram(m)
}

// SetStartProgramForTest replaces the program runner.
func SetStartProgramForTest(fn func(tea.Model) error) {
	startProgram = fn
}
