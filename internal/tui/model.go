// Package tui renders the console dashboard. The model is a passive
// view over the shared state adapter: snapshots arrive as messages
// pushed from the subscription, never pulled on a timer of their own,
// so the console can never show a partially written sample.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sysglance/internal/sampler"
	"sysglance/internal/state"
	"sysglance/internal/theme"
)

// waitFrames animates the pre-first-sample state.
var waitFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// SnapshotMsg carries a freshly published snapshot into the Bubble Tea
// event loop.
type SnapshotMsg struct {
	Snapshot *sampler.Snapshot
}

// ageTickMsg re-renders once a second so the "updated Ns ago" readout
// stays honest between samples.
type ageTickMsg time.Time

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	adapter state.Adapter
	themes  *theme.Controller
	onQuit  func()

	snap     *sampler.Snapshot
	spinner  spinner.Model
	width    int
	height   int
	now      time.Time
	quitting bool

	clock func() time.Time
}

// NewModel creates a dashboard model. onQuit runs exactly once when the
// user quits, before the program exits; it is where the caller stops
// the refresh scheduler.
func NewModel(adapter state.Adapter, themes *theme.Controller, onQuit func()) Model {
	sp := spinner.New()
	sp.Spinner = waitFrames

	m := Model{
		adapter: adapter,
		themes:  themes,
		onQuit:  onQuit,
		spinner: sp,
		clock:   time.Now,
	}
	if snap, ok := adapter.Latest(); ok {
		m.snap = snap
	}
	m.now = m.clock()
	return m
}

// Init starts the once-a-second age ticker and the waiting spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ageTickCmd(), m.spinner.Tick)
}

func (m Model) ageTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ageTickMsg(t)
	})
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.now = m.clock()

	case ageTickMsg:
		m.now = m.clock()
		return m, m.ageTickCmd()

	case spinner.TickMsg:
		// Only animate while there is nothing else to show.
		if m.snap != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Snapshot returns the snapshot currently on screen, or nil before the
// first sample lands.
func (m Model) Snapshot() *sampler.Snapshot {
	return m.snap
}

// Quitting reports whether the user has asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// SecondsSinceUpdate returns whole seconds since the displayed snapshot
// was taken.
func (m Model) SecondsSinceUpdate() int {
	if m.snap == nil {
		return 0
	}
	s := int(m.now.Sub(m.snap.Timestamp).Seconds())
	if s < 0 {
		return 0
	}
	return s
}
