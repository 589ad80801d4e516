// Package dashboard is the root screen: it shows the configured test,
// recent results and starts new tests.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/router"
	"github.com/Arizalb/jokicbt/internal/screen"
	"github.com/Arizalb/jokicbt/internal/screens/result"
	"github.com/Arizalb/jokicbt/internal/store"
	"github.com/Arizalb/jokicbt/internal/ui/components"
	"github.com/Arizalb/jokicbt/internal/ui/layout"
	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// recentLimit is how many past results are listed.
const recentLimit = 5

// StartFunc builds the screen that runs a test with the given credentials.
type StartFunc func(creds credentials.Credentials) screen.Screen

// Deps are the collaborators of the dashboard. Saved and Results may be nil.
type Deps struct {
	Creds   credentials.Credentials
	Saved   store.CredentialRepo
	Results store.ResultRepo
	Start   StartFunc
}

// recentMsg carries the results read from the store.
type recentMsg struct {
	Results []store.Result
	Err     error
}

// DashboardScreen is the root of the screen stack.
type DashboardScreen struct {
	deps   Deps
	creds  credentials.Credentials
	menu   components.Menu
	input  components.TextInput
	recent []store.Result

	editing bool
	notice  string
	errMsg  string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)
var _ screen.ContextProvider = (*DashboardScreen)(nil)

// New creates a new DashboardScreen.
func New(deps Deps) *DashboardScreen {
	d := &DashboardScreen{
		deps:  deps,
		creds: deps.Creds,
		input: components.NewTextInput("Test code", deps.Creds.Code, true, 32),
	}
	d.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start test", Key: "s", Action: d.start},
		{Label: "Change test code", Key: "c", Action: d.editCode},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return d
}

// Credentials returns the credentials the next test will use.
func (d *DashboardScreen) Credentials() credentials.Credentials {
	return d.creds
}

// Recent returns the results currently listed.
func (d *DashboardScreen) Recent() []store.Result {
	return d.recent
}

// Editing reports whether the test code input is open.
func (d *DashboardScreen) Editing() bool {
	return d.editing
}

func (d *DashboardScreen) Init() tea.Cmd {
	return d.loadRecent()
}

// Resume refreshes the result list when a test screen is closed.
func (d *DashboardScreen) Resume() tea.Cmd {
	return d.loadRecent()
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) HeaderContext() (code, user string) {
	user, _ = d.creds.ResolveUserID()
	return d.creds.Code, user
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	if d.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "S", Description: "Start"},
		{Key: "Q", Description: "Quit"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recentMsg:
		if msg.Err != nil {
			d.errMsg = "Could not read past results."
			return d, nil
		}
		d.recent = msg.Results
		return d, nil

	case tea.KeyMsg:
		if d.editing {
			return d.handleEditKey(msg)
		}
	}

	if d.editing {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) handleEditKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.editing = false
		d.input.Blur()
		return d, nil
	case "enter":
		code := d.input.Value()
		if code == "" {
			d.input.SetError("required")
			return d, nil
		}
		d.setCode(code)
		return d, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) setCode(code string) {
	d.editing = false
	d.input.Blur()
	d.creds = d.creds.WithCode(code)
	d.errMsg = ""
	d.notice = "Test code set to " + code + "."

	if d.deps.Saved == nil {
		return
	}
	if err := d.deps.Saved.Set(context.Background(), store.KeyCode, code); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save test code: %v\n", err)
		d.notice = "Test code set to " + code + " for this run only."
	}
}

func (d *DashboardScreen) editCode() tea.Cmd {
	d.editing = true
	d.notice = ""
	d.input.Model.SetValue(d.creds.Code)
	return d.input.Focus()
}

func (d *DashboardScreen) start() tea.Cmd {
	d.notice = ""
	if err := d.creds.Validate(); err != nil {
		d.errMsg = describe(err)
		return nil
	}
	if d.deps.Start == nil {
		d.errMsg = "Tests cannot be started in this mode."
		return nil
	}
	d.errMsg = ""
	next := d.deps.Start(d.creds)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (d *DashboardScreen) loadRecent() tea.Cmd {
	repo := d.deps.Results
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		rs, err := repo.Recent(context.Background(), recentLimit)
		return recentMsg{Results: rs, Err: err}
	}
}

// describe turns a credential problem into a hint the user can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, credentials.ErrMissingToken):
		return "No access token. Run `jokicbt login` or set JOKICBT_TOKEN."
	case errors.Is(err, credentials.ErrMissingCode):
		return "No test code. Press C to enter one."
	case errors.Is(err, credentials.ErrTokenExpired):
		return "Your access token has expired. Run `jokicbt login` again."
	}
	return err.Error()
}

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("JokiCBT"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Computer-based tests in your terminal"))
	b.WriteString("\n\n")

	b.WriteString(d.renderDetails(cw))
	b.WriteString("\n\n")

	if d.editing {
		b.WriteString(theme.Body.Render("Enter the test code:"))
		b.WriteString("\n")
		b.WriteString(d.input.View())
	} else {
		b.WriteString(d.menu.View())
	}
	b.WriteString("\n")

	if d.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(components.AlertBox(d.errMsg, cw))
		b.WriteString("\n")
	}
	if d.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Success.Render(d.notice))
		b.WriteString("\n")
	}

	if len(d.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(renderRecent(d.recent, cw))
	}

	return layout.Center(components.Panel(b.String(), cw), width, height)
}

func (d *DashboardScreen) renderDetails(cw int) string {
	code := d.creds.Code
	if code == "" {
		code = "not set"
	}
	user, err := d.creds.ResolveUserID()
	if err != nil {
		user = "unknown"
	}
	token := "missing"
	if d.creds.Token != "" {
		token = "configured"
	}

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12)
	rows := []string{
		label.Render("Test code") + theme.Body.Render(code),
		label.Render("User") + theme.Body.Render(user),
		label.Render("Token") + theme.Body.Render(token),
	}
	return theme.Card.Width(cw).Render(strings.Join(rows, "\n"))
}

func renderRecent(results []store.Result, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Caption.Render("Recent results"))
	for _, r := range results {
		b.WriteString("\n")
		line := fmt.Sprintf("%-10s %6s  %d/%d  %s",
			r.Code,
			result.FormatScore(r.TotalScore),
			r.Answered, r.QuestionCount,
			r.SubmittedAt.Local().Format("2006-01-02 15:04"))
		b.WriteString(theme.Body.Width(cw).Render(line))
	}
	return b.String()
}
