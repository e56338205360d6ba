// Package theme holds the two display themes and the controller that
// swaps the active one. Themes are built once at startup from config
// style strings and never mutated afterwards; the controller only ever
// swaps an atomic reference between them.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"sysglance/internal/config"
)

// Theme names. Exactly two theme instances exist per run.
const (
	Light = "light"
	Dark  = "dark"
)

// Theme is an immutable set of semantic styles for one display mode.
type Theme struct {
	Name string

	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style

	// Raw holds the original config style strings, keyed by slot name.
	// The web front end ships these to the browser as-is.
	Raw map[string]string
}

// Build constructs a Theme from its config spec. Unknown tokens in a
// style string are ignored rather than failing startup; validation has
// already ensured every slot is non-empty.
func Build(name string, spec config.ThemeSpec) *Theme {
	return &Theme{
		Name:    name,
		Info:    ParseStyle(spec.Info),
		Warning: ParseStyle(spec.Warning),
		Error:   ParseStyle(spec.Error),
		Header:  ParseStyle(spec.Header),
		Footer:  ParseStyle(spec.Footer),
		Raw: map[string]string{
			"info":    spec.Info,
			"warning": spec.Warning,
			"error":   spec.Error,
			"header":  spec.Header,
			"footer":  spec.Footer,
		},
	}
}

// Pair builds both themes from config.
func Pair(themes config.Themes) (light, dark *Theme) {
	return Build(Light, themes.Light), Build(Dark, themes.Dark)
}
