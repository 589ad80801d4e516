package components

import (
	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// ContentWidth returns the inner width used by every panel so boxes align.
func ContentWidth(frameWidth int) int {
	// border (2) + padding (6)
	w := frameWidth - 8
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

// Panel wraps content in the rounded paper border at content width cw.
func Panel(content string, cw int) string {
	return theme.Paper.Width(cw + 8).Render(content)
}

// AlertBox renders an error message in the alert style.
func AlertBox(msg string, cw int) string {
	return theme.Alert.Width(cw).Render("✕ " + msg)
}
