package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: light blue and light green accents on a dark terminal.
var (
	Primary    = lipgloss.Color("#90CAF9") // Light blue
	Secondary  = lipgloss.Color("#A5D6A7") // Light green
	Contrast   = lipgloss.Color("#FFFFFF") // Text on Primary / Secondary
	Background = lipgloss.Color("#F4F4F4") // Light surface
	Ink        = lipgloss.Color("#263238") // Text on Background
	Error      = lipgloss.Color("#EF5350") // Red
	Warning    = lipgloss.Color("#FFB74D") // Amber
	Text       = lipgloss.Color("#ECEFF1") // Near white
	TextDim    = lipgloss.Color("#90A4AE") // Blue grey
	BgCard     = lipgloss.Color("#1F2A30") // Dark blue grey
	Border     = lipgloss.Color("#455A64") // Blue grey
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Caption = lipgloss.NewStyle().
		Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	// Paper is the outer container of the test screen.
	Paper = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 3)

	// Card holds the question text.
	Card = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	// Surface is a light panel for emphasised content such as the score.
	Surface = lipgloss.NewStyle().
		Background(Background).
		Foreground(Ink).
		Padding(1, 4)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Alert = lipgloss.NewStyle().
		Foreground(Error).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Padding(0, 2)

	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	// Buttons keep their label casing, use a rounded border and sit with
	// one column of margin on each side.
	ButtonPrimary = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 2).
			Margin(0, 1)

	ButtonSecondary = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 2).
			Margin(0, 1)

	ButtonDisabled = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2).
			Margin(0, 1)
)
