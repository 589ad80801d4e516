package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/Arizalb/jokicbt/internal/router"
	"github.com/Arizalb/jokicbt/internal/screen"
	"github.com/Arizalb/jokicbt/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	// Root is the bottom of the screen stack.
	Root screen.Screen

	// Initial, when set, is pushed above Root at startup.
	Initial screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	initial screen.Screen
	width   int
	height  int
}

// newAppModel creates a new AppModel from options.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router:  router.New(opts.Root),
		initial: opts.Initial,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.initial != nil {
		initial := m.initial
		return tea.Batch(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: initial} })
	}
	return cmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.guarded() {
				return m, m.router.Update(screen.LeaveRequestMsg{})
			}
			return m, tea.Quit
		case "esc":
			if !m.guarded() && m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// guarded reports whether the active screen must confirm before leaving.
func (m AppModel) guarded() bool {
	g, ok := m.router.Active().(screen.LeaveGuard)
	return ok && g.GuardLeave()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var code, user string
	if active != nil {
		title = active.Title()
		if cp, ok := active.(screen.ContextProvider); ok {
			code, user = cp.HeaderContext()
		}
	}

	header := layout.RenderHeader(title, code, user, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	content := m.router.View(m.width, layout.ContentHeight(m.height, header, footer))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
