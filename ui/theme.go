package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	colorRunning = color.NRGBA{R: 0x4c, G: 0xd9, B: 0x64, A: 0xff}
	colorEnded   = color.NRGBA{R: 0xff, G: 0xc8, B: 0x3d, A: 0xff}
	colorCurrent = color.NRGBA{R: 0x35, G: 0x7a, B: 0xd8, A: 0xff}
)

// CustomTheme is the default theme locked to its dark variant.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color ignores the requested variant.
func (t *CustomTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, theme.VariantDark)
}
