package ui

import "github.com/charmbracelet/lipgloss"

const ellipsis = "…"

var (
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	fuchsia   = lipgloss.Color("#EE6FF8")
	gray      = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	faintGray = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1).
			Render

	counterStyle = lipgloss.NewStyle().
			Foreground(gray).
			Render

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Render

	optionStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Render

	correctStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(mintGreen).
			Bold(true).
			Render

	wrongStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(red).
			Render

	timeoutStyle = lipgloss.NewStyle().
			Foreground(red).
			Italic(true).
			Render

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Background(darkGreen).
			Padding(0, 1).
			Render

	speakingStyle = lipgloss.NewStyle().
			Foreground(fuchsia).
			Render

	faintStyle = lipgloss.NewStyle().
			Foreground(faintGray).
			Render

	scoreStyle = lipgloss.NewStyle().
			Foreground(fuchsia).
			Bold(true).
			Render

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A56E0")).
			Padding(1, 4).
			Align(lipgloss.Center)

	knownCardStyle = cardStyle.
			BorderForeground(mintGreen)

	docStyle = lipgloss.NewStyle().
			Margin(1, 2)
)
