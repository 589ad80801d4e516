package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Arizalb/jokicbt/internal/ui/theme"
)

// RadioList renders labelled options of which at most one is selected.
type RadioList struct {
	Labels   []string
	Texts    []string
	Selected int // -1 when nothing is selected
}

// NewRadioList creates a list with labels and their texts; index i of texts
// belongs to labels[i].
func NewRadioList(labels, texts []string, selected int) RadioList {
	return RadioList{Labels: labels, Texts: texts, Selected: selected}
}

// Pick maps a key to the option it selects. Digits 1..n and the labels
// themselves (either case) select directly; up/down and k/j move from the
// current selection.
func (r RadioList) Pick(key string) (int, bool) {
	n := len(r.Labels)
	if n == 0 {
		return 0, false
	}

	switch key {
	case "up", "k":
		if r.Selected <= 0 {
			return 0, true
		}
		return r.Selected - 1, true
	case "down", "j":
		if r.Selected < 0 {
			return 0, true
		}
		if r.Selected >= n-1 {
			return n - 1, true
		}
		return r.Selected + 1, true
	}

	if len(key) == 1 && key[0] >= '1' && int(key[0]-'0') <= n {
		return int(key[0] - '1'), true
	}
	for i, l := range r.Labels {
		if strings.EqualFold(key, l) {
			return i, true
		}
	}
	return 0, false
}

// View renders one line per option.
func (r RadioList) View(width int) string {
	var b strings.Builder
	for i, label := range r.Labels {
		text := ""
		if i < len(r.Texts) {
			text = r.Texts[i]
		}
		mark := "( )"
		style := theme.Unselected
		if i == r.Selected {
			mark = "(•)"
			style = theme.Selected
		}
		line := fmt.Sprintf("%s %s.  %s", mark, label, text)
		b.WriteString(style.Width(width).Render(line))
		if i < len(r.Labels)-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Render(b.String())
}
