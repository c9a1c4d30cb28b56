package ui

import (
	"fmt"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
	colorGreen  = 71
	colorYellow = 178
	colorRed    = 167
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderBadge colors a badge name by its level. Unknown badges are muted.
func RenderBadge(b model.Badge) string {
	switch b {
	case model.BadgeGreen:
		return paint(colorGreen, string(b))
	case model.BadgeYellow:
		return paint(colorYellow, string(b))
	case model.BadgeRed:
		return paint(colorRed, string(b))
	default:
		return paint(colorMuted, string(b))
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// SetColor enables or disables color output globally.
func SetColor(enabled bool) {
	noColor = !enabled
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return paint(colorCmd, s) }
