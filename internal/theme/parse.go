package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// namedColors maps the color names accepted in style strings to ANSI-256
// color codes. Hex colors ("#RRGGBB") are passed through directly.
var namedColors = map[string]lipgloss.Color{
	"black":   lipgloss.Color("0"),
	"red":     lipgloss.Color("1"),
	"green":   lipgloss.Color("2"),
	"yellow":  lipgloss.Color("3"),
	"blue":    lipgloss.Color("4"),
	"magenta": lipgloss.Color("5"),
	"cyan":    lipgloss.Color("6"),
	"white":   lipgloss.Color("7"),
	"gray":    lipgloss.Color("8"),
	"grey":    lipgloss.Color("8"),
	"orange":  lipgloss.Color("208"),
	"purple":  lipgloss.Color("93"),
	"pink":    lipgloss.Color("205"),
}

// ParseStyle converts a style-description string like "bold red" or
// "white on blue" into a lipgloss style. The grammar is a whitespace
// separated list of attribute words (bold, dim, italic, underline),
// color words or hex values for the foreground, and "on <color>" for
// the background. Unknown tokens are skipped.
func ParseStyle(s string) lipgloss.Style {
	style := lipgloss.NewStyle()

	tokens := strings.Fields(strings.ToLower(s))
	background := false

	for _, tok := range tokens {
		switch tok {
		case "bold":
			style = style.Bold(true)
		case "dim", "faint":
			style = style.Faint(true)
		case "italic":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		case "on":
			background = true
		default:
			color, ok := lookupColor(tok)
			if !ok {
				continue
			}
			if background {
				style = style.Background(color)
				background = false
			} else {
				style = style.Foreground(color)
			}
		}
	}

	return style
}

func lookupColor(tok string) (lipgloss.Color, bool) {
	if strings.HasPrefix(tok, "#") && (len(tok) == 7 || len(tok) == 4) {
		return lipgloss.Color(tok), true
	}
	color, ok := namedColors[tok]
	return color, ok
}
