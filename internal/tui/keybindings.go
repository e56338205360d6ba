package tui

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyToggleTheme = "d"
	KeyToggleAlt   = "t"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		if m.onQuit != nil {
			m.onQuit()
		}
		return true, tea.Quit

	case KeyToggleTheme, KeyToggleAlt:
		m.themes.Toggle()
		return true, nil
	}

	return false, nil
}
