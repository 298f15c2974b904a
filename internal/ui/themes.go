package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named set of lipgloss colors.
type Theme struct {
	Name    string
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Accent:  lipgloss.Color("39"),
		Success: lipgloss.Color("82"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Dim:     lipgloss.Color("245"),
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:    "light",
		Accent:  lipgloss.Color("27"),
		Success: lipgloss.Color("28"),
		Warning: lipgloss.Color("130"),
		Error:   lipgloss.Color("124"),
		Dim:     lipgloss.Color("240"),
	}

	// NoColorTheme renders text unchanged. Used for --no-color and NO_COLOR.
	NoColorTheme = Theme{
		Name:    "none",
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name: "dark", "light" or "none". Unknown
// names select dark.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme disables colors when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/), and selects dark otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

func render(c func(Theme) lipgloss.TerminalColor, bold bool, s string) string {
	t := GetCurrentTheme()
	if t.Name == NoColorTheme.Name {
		return s
	}
	return lipgloss.NewStyle().Foreground(c(t)).Bold(bold).Render(s)
}

// Accent renders s in the accent color, bold.
func Accent(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Accent }, true, s)
}

// Success renders s in the success color.
func Success(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Success }, false, s)
}

// Warning renders s in the warning color.
func Warning(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Warning }, false, s)
}

// Error renders s in the error color, bold.
func Error(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Error }, true, s)
}

// Dim renders s in the secondary color.
func Dim(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Dim }, false, s)
}
