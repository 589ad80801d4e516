package components

import (
	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// ButtonKind selects the button colour.
type ButtonKind int

const (
	ButtonPrimary ButtonKind = iota
	ButtonSecondary
)

// Button is a rendered action hint. Disabled and busy buttons render dim;
// a busy button shows BusyLabel instead of Label.
type Button struct {
	Label     string
	BusyLabel string
	Kind      ButtonKind
	Disabled  bool
	Busy      bool
}

// NewButton creates an enabled button.
func NewButton(label string, kind ButtonKind) Button {
	return Button{Label: label, Kind: kind}
}

// Enabled reports whether pressing the button should do anything.
func (b Button) Enabled() bool {
	return !b.Disabled && !b.Busy
}

// Text returns the label currently shown.
func (b Button) Text() string {
	if b.Busy && b.BusyLabel != "" {
		return b.BusyLabel
	}
	return b.Label
}

// View renders the button.
func (b Button) View() string {
	if !b.Enabled() {
		return theme.ButtonDisabled.Render(b.Text())
	}
	if b.Kind == ButtonSecondary {
		return theme.ButtonSecondary.Render(b.Text())
	}
	return theme.ButtonPrimary.Render(b.Text())
}
