package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sysglance/internal/sampler"
)

// Thresholds for metric severity coloring.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Metric bar geometry.
const (
	barWidth  = 20
	barFilled = "▰"
	barEmpty  = "▱"
)

// Service status glyphs.
const (
	GlyphActive   = "◉"
	GlyphInactive = "◌"
	GlyphUnknown  = "◐"
)

// View renders the complete dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.snap == nil {
		th := m.adapter.Theme()
		b.WriteString(m.spinner.View() + " " + th.Footer.Render("Waiting for first sample..."))
		b.WriteString("\n\n")
		b.WriteString(m.renderFooter())
		return b.String()
	}

	b.WriteString(m.renderMetrics())
	b.WriteString("\n\n")
	b.WriteString(m.renderServices())
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with update age and health badges.
func (m Model) renderHeader() string {
	th := m.adapter.Theme()

	title := th.Header.Render("sysglance")

	var parts []string
	if m.snap != nil {
		age := m.SecondsSinceUpdate()
		switch age {
		case 0:
			parts = append(parts, "updated just now")
		case 1:
			parts = append(parts, "updated 1s ago")
		default:
			parts = append(parts, fmt.Sprintf("updated %ds ago", age))
		}
		parts = append(parts, "theme "+th.Name)
	}

	line := title
	if len(parts) > 0 {
		line += th.Footer.Render(" | " + strings.Join(parts, " | "))
	}

	if m.snap != nil && m.snap.Degraded {
		line += " " + th.Error.Render("[DEGRADED]")
	}
	if m.snap != nil && m.snap.LogsStale {
		line += " " + th.Warning.Render("[LOGS STALE]")
	}

	return line
}

// renderMetrics renders the three resource gauges.
func (m Model) renderMetrics() string {
	th := m.adapter.Theme()

	if m.snap.Degraded {
		msg := m.snap.Err
		if msg == "" {
			msg = "metrics unavailable"
		}
		return th.Error.Render("metrics unavailable: " + msg)
	}

	rows := []struct {
		label string
		value float64
	}{
		{"CPU ", m.snap.Metrics.CPU},
		{"MEM ", m.snap.Metrics.Memory},
		{"DISK", m.snap.Metrics.Disk},
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s %5.1f%%", r.label, m.renderBar(r.value), r.value))
	}
	return b.String()
}

// renderBar renders a fixed-width gauge colored by severity threshold.
func (m Model) renderBar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barWidth-filled)
	return m.severityStyle(pct).Render(bar)
}

// severityStyle picks the theme style for a percentage reading.
func (m Model) severityStyle(pct float64) lipgloss.Style {
	th := m.adapter.Theme()
	switch {
	case pct >= CriticalThreshold:
		return th.Error
	case pct >= WarningThreshold:
		return th.Warning
	default:
		return th.Info
	}
}

// renderServices renders one line per configured unit, config order.
func (m Model) renderServices() string {
	th := m.adapter.Theme()

	if len(m.snap.Services) == 0 {
		return th.Footer.Render("No services configured")
	}

	nameWidth := 0
	for _, s := range m.snap.Services {
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
	}

	var b strings.Builder
	for i, s := range m.snap.Services {
		if i > 0 {
			b.WriteString("\n")
		}

		var glyph string
		switch s.Activity {
		case sampler.ActivityActive:
			glyph = th.Info.Render(GlyphActive)
		case sampler.ActivityInactive:
			glyph = th.Error.Render(GlyphInactive)
		default:
			glyph = th.Warning.Render(GlyphUnknown)
		}

		line := fmt.Sprintf("%s %-*s %s", glyph, nameWidth, s.Name, s.Activity)
		if s.Enabled != "" {
			line += " (" + s.Enabled + ")"
		}
		if s.Detail != "" {
			line += " " + th.Footer.Render("- "+s.Detail)
		}
		b.WriteString(line)
	}
	return b.String()
}

// renderLogs renders the recent journal lines, oldest first.
func (m Model) renderLogs() string {
	th := m.adapter.Theme()

	if len(m.snap.Logs) == 0 {
		return th.Footer.Render("No recent log entries")
	}

	var b strings.Builder
	for i, e := range m.snap.Logs {
		if i > 0 {
			b.WriteString("\n")
		}

		var levelStyle lipgloss.Style
		switch {
		case e.Severity >= sampler.SeverityError:
			levelStyle = th.Error
		case e.Severity == sampler.SeverityWarning:
			levelStyle = th.Warning
		default:
			levelStyle = th.Info
		}

		ts := th.Footer.Render(e.Timestamp.Format("15:04:05"))
		b.WriteString(fmt.Sprintf("%s %s %s", ts, levelStyle.Render(fmt.Sprintf("%-8s", e.Level)), e.Message))
	}
	return b.String()
}

// renderFooter renders the keyboard help line.
func (m Model) renderFooter() string {
	th := m.adapter.Theme()
	hints := []string{
		"q quit",
		"d theme",
	}
	return th.Footer.Render(strings.Join(hints, " | "))
}
