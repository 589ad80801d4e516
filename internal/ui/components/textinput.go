package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for short identifiers such as test
// codes. Spaces are rejected and, with Upper set, letters are uppercased.
type TextInput struct {
	Model    textinput.Model
	Upper    bool
	MaxWidth int
	errMsg   string
}

// NewTextInput creates a new styled text input, unfocused.
func NewTextInput(placeholder, value string, upper bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	ti.SetValue(value)

	return TextInput{
		Model:    ti,
		Upper:    upper,
		MaxWidth: maxWidth,
	}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	t.errMsg = ""
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "space" || kmsg.String() == " " {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Upper {
		if v := t.Model.Value(); v != strings.ToUpper(v) {
			t.Model.SetValue(strings.ToUpper(v))
		}
	}
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.errMsg != "" {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render(t.errMsg)
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetError shows msg next to the input until it is focused again.
func (t *TextInput) SetError(msg string) {
	t.errMsg = msg
}
