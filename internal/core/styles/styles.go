// Package styles holds the terminal colors used by command output.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is a set of semantic colors.
type Palette struct {
	Success lipgloss.Color
	Info    lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

var themes = map[string]Palette{
	"tokyo-night": {
		Success: lipgloss.Color("#9ece6a"),
		Info:    lipgloss.Color("#7aa2f7"),
		Warning: lipgloss.Color("#e0af68"),
		Error:   lipgloss.Color("#f7768e"),
		Muted:   lipgloss.Color("#565f89"),
	},
	"gruvbox": {
		Success: lipgloss.Color("#b8bb26"),
		Info:    lipgloss.Color("#83a598"),
		Warning: lipgloss.Color("#fabd2f"),
		Error:   lipgloss.Color("#fb4934"),
		Muted:   lipgloss.Color("#928374"),
	},
}

// DefaultTheme is applied at init.
const DefaultTheme = "tokyo-night"

// GetPalette returns the named palette.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

var (
	TextSuccess lipgloss.Style
	TextInfo    lipgloss.Style
	TextWarning lipgloss.Style
	TextError   lipgloss.Style
	TextMuted   lipgloss.Style
	TextBold    = lipgloss.NewStyle().Bold(true)
)

// SetTheme rebuilds the text styles from p.
func SetTheme(p Palette) {
	TextSuccess = lipgloss.NewStyle().Foreground(p.Success)
	TextInfo = lipgloss.NewStyle().Foreground(p.Info)
	TextWarning = lipgloss.NewStyle().Foreground(p.Warning)
	TextError = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	TextMuted = lipgloss.NewStyle().Foreground(p.Muted)
}

func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
