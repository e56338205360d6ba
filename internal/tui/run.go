package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sysglance/internal/errors"
	"sysglance/internal/sampler"
	"sysglance/internal/state"
	"sysglance/internal/theme"
)

// Run starts the dashboard in the alternate screen and blocks until the
// user quits. Published snapshots are bridged into the event loop with
// Program.Send, so delivery keeps the adapter's production order.
// onQuit fires when the user quits, before Run returns.
func Run(adapter state.Adapter, themes *theme.Controller, onQuit func()) error {
	model := NewModel(adapter, themes, onQuit)
	p := tea.NewProgram(model, tea.WithAltScreen())

	cancel := adapter.Subscribe(func(snap *sampler.Snapshot) {
		p.Send(SnapshotMsg{Snapshot: snap})
	})
	defer cancel()

	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrShutdown,
			"Dashboard exited with an error",
			"Check that the terminal supports the alternate screen.")
	}
	return nil
}
