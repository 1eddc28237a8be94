package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// Common semantic colors used across the TUI.
var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorConnector  lipgloss.TerminalColor = ac("247", "240")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccentFg   lipgloss.TerminalColor = ac("255", "255")
	colorStatusBg   lipgloss.TerminalColor = ac("254", "236")
	colorStatusFg   lipgloss.TerminalColor = ac("238", "250")
)

// asciiGlyphs reports whether the terminal gives us no styling at all, in
// which case the canvas falls back to plain ASCII connectors and markers.
func asciiGlyphs() bool {
	return termenv.EnvColorProfile() == termenv.Ascii
}

func glyphBullet() string {
	if asciiGlyphs() {
		return "*"
	}
	return "•"
}

func glyphCollapsed() string {
	if asciiGlyphs() {
		return "[+]"
	}
	return "⊕"
}

func glyphDirty() string {
	if asciiGlyphs() {
		return "*"
	}
	return "●"
}
