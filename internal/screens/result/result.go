// Package result shows the score returned for a submitted test.
package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Arizalb/jokicbt/internal/router"
	"github.com/Arizalb/jokicbt/internal/screen"
	"github.com/Arizalb/jokicbt/internal/ui/layout"
	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// Summary is what the result screen displays.
type Summary struct {
	Code     string
	Score    float64
	Answered int
	Total    int
}

// ResultScreen displays the total score.
type ResultScreen struct {
	summary Summary
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a new ResultScreen.
func New(summary Summary) *ResultScreen {
	return &ResultScreen{summary: summary}
}

// Summary returns the displayed values.
func (s *ResultScreen) Summary() Summary {
	return s.summary
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) HeaderContext() (code, user string) {
	return s.summary.Code, ""
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Dashboard"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

// FormatScore renders a score without trailing zeros.
func FormatScore(score float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", score), "0"), ".")
}

func (s *ResultScreen) View(width, height int) string {
	sum := s.summary

	var b strings.Builder
	b.WriteString(theme.Success.Render("✓ Test submitted"))
	b.WriteString("\n\n")

	b.WriteString(theme.Surface.Render(
		lipgloss.NewStyle().Bold(true).Render("Total score: " + FormatScore(sum.Score)),
	))
	b.WriteString("\n\n")

	if sum.Total > 0 {
		b.WriteString(theme.Caption.Render(fmt.Sprintf("Answered %d of %d questions", sum.Answered, sum.Total)))
		b.WriteString("\n")
	}
	if sum.Code != "" {
		b.WriteString(theme.Caption.Render("Test code " + sum.Code))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press Enter to return to the dashboard."))

	return layout.Center(lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()), width, height)
}
