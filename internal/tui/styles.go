package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JPM1118/animback/internal/player"
)

var (
	// Colors
	colorPlaying = lipgloss.Color("2")  // green
	colorStopped = lipgloss.Color("3")  // yellow
	colorError   = lipgloss.Color("1")  // red
	colorHeader  = lipgloss.Color("12") // bright blue
	colorMuted   = lipgloss.Color("8")  // dim
	colorAccent  = lipgloss.Color("6")  // cyan

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	subheaderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	editStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	sliderFillStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	sliderEmptyStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	notificationBarStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// stateStyle returns the style for the playback state shown in the subheader.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "Playing":
		return lipgloss.NewStyle().Foreground(colorPlaying).Bold(true)
	case "Stopped":
		return lipgloss.NewStyle().Foreground(colorStopped)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}

// statusStyle returns the style for a status line of the given kind.
func statusStyle(kind player.Kind) lipgloss.Style {
	switch kind {
	case player.KindError:
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	case player.KindPlaying, player.KindFrame:
		return lipgloss.NewStyle().Foreground(colorPlaying)
	case player.KindStopped, player.KindCleared:
		return lipgloss.NewStyle().Foreground(colorStopped)
	default:
		return lipgloss.NewStyle()
	}
}
