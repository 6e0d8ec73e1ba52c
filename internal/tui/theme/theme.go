package theme

import "github.com/charmbracelet/lipgloss"

// Theme names accepted by Apply.
const (
	Dark  = "dark"
	Light = "light"
)

// Color palette. Set by Apply; dark by default.
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorError     lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorHighlight lipgloss.Color
	ColorText      lipgloss.Color
	ColorBarBg     lipgloss.Color
)

// Shared styles used across TUI components.
var (
	StyleBorder       lipgloss.Style
	StyleActiveBorder lipgloss.Style
	StyleTitle        lipgloss.Style
	StyleMuted        lipgloss.Style
	StyleNull         lipgloss.Style
	StyleError        lipgloss.Style
	StyleSuccess      lipgloss.Style
	StyleSelected     lipgloss.Style
	StyleStatusBar    lipgloss.Style
)

func init() {
	Apply(Dark)
}

// Apply switches the palette. Unknown names fall back to dark.
// Components read the styles at render time, so no rebuild is needed.
func Apply(name string) {
	if name == Light {
		ColorPrimary = lipgloss.Color("25")  // Blue
		ColorSecondary = lipgloss.Color("243")
		ColorSuccess = lipgloss.Color("28")
		ColorError = lipgloss.Color("160")
		ColorBorder = lipgloss.Color("250")
		ColorMuted = lipgloss.Color("244")
		ColorHighlight = lipgloss.Color("130") // Orange
		ColorText = lipgloss.Color("235")
		ColorBarBg = lipgloss.Color("254")
	} else {
		ColorPrimary = lipgloss.Color("63") // Purple
		ColorSecondary = lipgloss.Color("241")
		ColorSuccess = lipgloss.Color("42")
		ColorError = lipgloss.Color("196")
		ColorBorder = lipgloss.Color("238")
		ColorMuted = lipgloss.Color("245")
		ColorHighlight = lipgloss.Color("229") // Yellow
		ColorText = lipgloss.Color("252")
		ColorBarBg = lipgloss.Color("236")
	}

	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)

	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StyleMuted = lipgloss.NewStyle().
		Foreground(ColorMuted)

	StyleNull = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	StyleSelected = lipgloss.NewStyle().
		Foreground(ColorHighlight).
		Bold(true)

	StyleStatusBar = lipgloss.NewStyle().
		Background(ColorBarBg).
		Foreground(ColorText).
		Padding(0, 1)
}

// Toggle returns the other palette name.
func Toggle(name string) string {
	if name == Light {
		return Dark
	}

	return Light
}
