package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Arizalb/jokicbt/internal/quiz"
	"github.com/Arizalb/jokicbt/internal/ui/components"
	"github.com/Arizalb/jokicbt/internal/ui/layout"
	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// optionList builds the A-D radio list for the current question.
func optionList(snap quiz.Snapshot) components.RadioList {
	labels := make([]string, len(quiz.Options))
	texts := make([]string, len(quiz.Options))
	selected := -1
	for i, o := range quiz.Options {
		labels[i] = string(o)
		if snap.Current != nil {
			texts[i] = snap.Current.Text(o)
		}
		if snap.Selected == o {
			selected = i
		}
	}
	return components.NewRadioList(labels, texts, selected)
}

// CounterText is the "Question i of n" caption under the progress bar.
func CounterText(snap quiz.Snapshot) string {
	return fmt.Sprintf("Question %d of %d", snap.Index+1, snap.Total)
}

func (s *ExamScreen) renderQuestion(snap quiz.Snapshot, width, height int) string {
	if snap.Current == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var b strings.Builder

	b.WriteString(components.NewProgressBar("", snap.Percent(), false, cw).View())
	b.WriteString("\n")
	b.WriteString(theme.Caption.Width(cw).Align(lipgloss.Center).Render(CounterText(snap)))
	b.WriteString("\n\n")

	question := fmt.Sprintf("%d. %s", snap.Index+1, snap.Current.Question)
	b.WriteString(theme.Card.Width(cw).Render(theme.Body.Bold(true).Render(question)))
	b.WriteString("\n\n")

	b.WriteString(optionList(snap).View(cw))
	b.WriteString("\n\n")

	if snap.Err != "" {
		b.WriteString(components.AlertBox(snap.Err, cw))
		b.WriteString("\n\n")
	}

	b.WriteString(renderButtons(snap, cw))

	return layout.Center(components.Panel(b.String(), cw), width, height)
}

// renderButtons lays out Previous on the left and Next or Finish on the right.
func renderButtons(snap quiz.Snapshot, cw int) string {
	prev := components.Button{Label: "← Previous", Kind: components.ButtonPrimary, Disabled: !snap.CanRetreat()}

	var next components.Button
	if snap.OnLast() {
		next = components.Button{
			Label:     "✓ Finish",
			BusyLabel: "Submitting...",
			Kind:      components.ButtonSecondary,
			Disabled:  snap.Selected == "",
			Busy:      snap.Submitting,
		}
	} else {
		next = components.Button{Label: "Next →", Kind: components.ButtonPrimary, Disabled: !snap.CanAdvance()}
	}

	left := prev.View()
	right := next.View()
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, left, strings.Repeat(" ", gap), right)
}

func renderExitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Leave the test?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(ExitPrompt))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("    ")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return layout.Center(b.String(), width, height)
}

func renderError(width, height int, errMsg string) string {
	cw := components.ContentWidth(width)
	content := components.AlertBox(errMsg, cw) + "\n\n" +
		theme.Hint.Render("Press R to retry or Esc to go back.")
	return layout.Center(content, width, height)
}
