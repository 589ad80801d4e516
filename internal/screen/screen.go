package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Arizalb/jokicbt/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// LeaveGuard is implemented by screens that must confirm before the user
// leaves them. While GuardLeave reports true, quit and back keys are routed
// to the screen instead of being handled by the app.
type LeaveGuard interface {
	GuardLeave() bool
}

// LeaveRequestMsg asks a guarded screen to confirm before it is left. The
// app sends it on Ctrl+C while the screen guards leaving.
type LeaveRequestMsg struct{}

// Closer is called once when a screen is removed from the stack.
type Closer interface {
	Close()
}

// Resumer is called when a screen becomes active again after the screen
// above it was popped.
type Resumer interface {
	Resume() tea.Cmd
}

// ContextProvider supplies the test code and user shown in the header.
type ContextProvider interface {
	HeaderContext() (code, user string)
}
