// Package layout draws the chrome around every screen: the title bar with
// the active test code and user, the key hint bar, and the content area.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// Smallest terminal that still fits a question card with four options.
const (
	MinWidth  = 64
	MinHeight = 20
)

const appName = "JokiCBT"

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal cannot fit the layout.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight is what remains of totalHeight once the rendered bars are
// drawn. Never negative.
func ContentHeight(totalHeight int, bars ...string) int {
	h := totalHeight
	for _, b := range bars {
		h -= lipgloss.Height(b)
	}
	return max(h, 0)
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("Window too small for the test view.\n\nNeed %d x %d, have %d x %d.",
		MinWidth, MinHeight, width, height)
	return Center(lipgloss.NewStyle().Foreground(theme.Warning).Render(text), width, height)
}

// RenderHeader draws the app name, the screen title centered, and the test
// code and user on the right when set.
func RenderHeader(title, code, user string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(appName)
	heading := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	tags := identityTags(code, user)

	inner := max(width-4, 0)
	used := lipgloss.Width(brand) + lipgloss.Width(heading) + lipgloss.Width(tags)
	left := max((inner-lipgloss.Width(heading))/2-lipgloss.Width(brand), 1)
	right := max(inner-used-left, 1)

	return bar(brand+strings.Repeat(" ", left)+heading+strings.Repeat(" ", right)+tags, width)
}

func identityTags(code, user string) string {
	var tags []string
	if code != "" {
		tags = append(tags, lipgloss.NewStyle().Foreground(theme.Secondary).Render("▣ "+code))
	}
	if user != "" {
		tags = append(tags, lipgloss.NewStyle().Foreground(theme.Primary).Render("● "+user))
	}
	return strings.Join(tags, "   ")
}

// RenderFooter draws the key hints separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	sep := desc.Render("  ·  ")

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(strings.Join(parts, sep), width)
}

// bar is the rounded card shared by header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the space between the bars.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(height, header, footer)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Center places content in the middle of a width x height box.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
